package opltypes

import "strings"

// Equipment is the closed set of supportive gear categories a lifter may
// compete in. There is no original_source enum file for this type; it is
// implemented directly from the domain's well-known categories.
type Equipment uint8

const (
	EquipmentRaw Equipment = iota
	EquipmentWraps
	EquipmentSingle
	EquipmentMulti
	EquipmentUnlimited
	EquipmentStraps
)

var equipmentNames = map[Equipment]string{
	EquipmentRaw:       "Raw",
	EquipmentWraps:      "Wraps",
	EquipmentSingle:     "Single-ply",
	EquipmentMulti:      "Multi-ply",
	EquipmentUnlimited:  "Unlimited",
	EquipmentStraps:     "Straps",
}

func (e Equipment) String() string { return equipmentNames[e] }

// ParseEquipment parses an equipment token as it appears in entries.csv.
func ParseEquipment(s string) (Equipment, error) {
	switch strings.TrimSpace(s) {
	case "Raw":
		return EquipmentRaw, nil
	case "Wraps":
		return EquipmentWraps, nil
	case "Single-ply":
		return EquipmentSingle, nil
	case "Multi-ply":
		return EquipmentMulti, nil
	case "Unlimited":
		return EquipmentUnlimited, nil
	case "Straps":
		return EquipmentStraps, nil
	default:
		return 0, &equipmentParseError{s}
	}
}

type equipmentParseError struct{ value string }

func (e *equipmentParseError) Error() string {
	return "opltypes: unknown equipment " + quote(e.value)
}

func quote(s string) string { return "\"" + s + "\"" }

// IsRawOrWraps reports whether e is one of the two unequipped-adjacent
// categories, the pairing joined by RuleCombineRawAndWraps.
func (e Equipment) IsRawOrWraps() bool {
	return e == EquipmentRaw || e == EquipmentWraps
}

// IsSingleOrMulti reports whether e is one of the two fully-equipped
// categories, the pairing joined by RuleCombineSingleAndMulti.
func (e Equipment) IsSingleOrMulti() bool {
	return e == EquipmentSingle || e == EquipmentMulti
}
