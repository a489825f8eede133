package checker

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/openlifting/oplengine/internal/opltypes"
)

// DivisionConfig is one [divisions.*] table entry: the division's
// display name and the inclusive Age range a lifter must fall into to
// compete in it, plus the optional equipment/sex/tested restrictions
// check_row_division enforces.
type DivisionConfig struct {
	Name      string   `toml:"name"`
	Min       int64    `toml:"min"`
	Max       int64    `toml:"max"`
	Equipment []string `toml:"equipment"`
	Sex       string   `toml:"sex"`
	Tested    *bool    `toml:"tested"`
}

// MinAge and MaxAge convert the TOML integer bounds into opltypes.Age
// values, per the Rust config's `Age` deserialization.
func (d DivisionConfig) MinAge() (opltypes.Age, error) { return opltypes.AgeFromI64(d.Min) }
func (d DivisionConfig) MaxAge() (opltypes.Age, error) { return opltypes.AgeFromI64(d.Max) }

// WeightClassConfig is one [weightclasses.*] table entry: a sorted list
// of class cutoffs valid for a sex over a date range, optionally scoped
// to a subset of named divisions.
type WeightClassConfig struct {
	Classes   []string `toml:"classes"`
	DateMin   string   `toml:"date_min"`
	DateMax   string   `toml:"date_max"`
	Sex       string   `toml:"sex"`
	Divisions []string `toml:"divisions"`
}

// ExemptionConfig lists, for one meet folder (keyed by the folder name
// relative to the CONFIG.toml, e.g. "9804"), which named checks that
// meet is exempt from.
type ExemptionConfig struct {
	Exempt []string `toml:"exempt"`
}

// rawConfig is the literal TOML document shape: dynamic table keys
// (the division name, the weightclass-group name, the meet folder)
// become Go map keys rather than a fixed struct field, which is what
// lets one CONFIG.toml declare any number of divisions/weightclass
// groups/exemptions.
type rawConfig struct {
	Options       map[string]any              `toml:"options"`
	Divisions     map[string]DivisionConfig   `toml:"divisions"`
	WeightClasses map[string]WeightClassConfig `toml:"weightclasses"`
	RuleSets      map[string][]string          `toml:"rulesets"`
	Exemptions    map[string]ExemptionConfig   `toml:"exemptions"`
}

// Exemption names a single check a meet can be exempted from via the
// CONFIG.toml [exemptions] table.
type Exemption string

const (
	ExemptDivision               Exemption = "check_row_division"
	ExemptLiftOrder              Exemption = "check_row_lift_order"
	ExemptWeightClassConsistency Exemption = "check_row_weightclass_consistency"
)

// Config is the parsed, validated form of a federation's CONFIG.toml:
// its known divisions, weight-class schemas, default RuleSet, and
// per-meet exemptions.
type Config struct {
	Divisions     []DivisionConfig
	WeightClasses []WeightClassConfig
	DefaultRuleSet opltypes.RuleSet
	exemptions    map[string][]Exemption
}

// ExemptionsFor returns the Exemptions declared for a meet folder name
// (the directory immediately containing meet.csv, relative to the
// CONFIG.toml), or nil if the meet has no exemptions.
func (c *Config) ExemptionsFor(meetFolder string) []Exemption {
	return c.exemptions[meetFolder]
}

// IsExempt reports whether a meet folder is exempt from a specific
// check.
func (c *Config) IsExempt(meetFolder string, e Exemption) bool {
	for _, have := range c.exemptions[meetFolder] {
		if have == e {
			return true
		}
	}
	return false
}

// DivisionByName looks up a division by its configured name.
func (c *Config) DivisionByName(name string) (DivisionConfig, bool) {
	for _, d := range c.Divisions {
		if d.Name == name {
			return d, true
		}
	}
	return DivisionConfig{}, false
}

// LoadConfig parses and validates a CONFIG.toml, returning both the
// Config (nil on unrecoverable parse failure) and a Report of every
// finding. A Config with a non-empty Report.HasError() is still
// returned when recoverable: a malformed division or an empty
// weightclass group is skipped and reported rather than aborting the
// whole file, matching the per-row tolerance of the rest of the
// checker. A weightclass group with an unparseable class or sex is
// reported but still kept.
func LoadConfig(path string) (*Config, *Report) {
	report := NewReport(path)

	data, err := os.ReadFile(path)
	if err != nil {
		report.Error(0, "could not read CONFIG.toml: %v", err)
		return nil, report
	}

	var raw rawConfig
	if _, err := toml.Decode(string(data), &raw); err != nil {
		report.Error(0, "could not parse CONFIG.toml: %v", err)
		return nil, report
	}

	cfg := &Config{exemptions: make(map[string][]Exemption)}

	for key, d := range raw.Divisions {
		if d.Name == "" {
			report.Error(0, "division %q is missing 'name'", key)
			continue
		}
		if _, err := d.MinAge(); err != nil {
			report.Error(0, "division %q has invalid 'min': %v", key, err)
			continue
		}
		if _, err := d.MaxAge(); err != nil {
			report.Error(0, "division %q has invalid 'max': %v", key, err)
			continue
		}
		cfg.Divisions = append(cfg.Divisions, d)
	}

	for key, w := range raw.WeightClasses {
		if len(w.Classes) == 0 {
			report.Error(0, "weightclass group %q has no classes", key)
			continue
		}
		for _, c := range w.Classes {
			if _, err := opltypes.ParseWeightClassKg(c); err != nil {
				report.Error(0, "weightclass group %q: %v", key, err)
			}
		}
		if w.Sex != "" {
			if _, err := opltypes.ParseSex(w.Sex); err != nil {
				report.Error(0, "weightclass group %q has invalid 'sex': %v", key, err)
			}
		}
		cfg.WeightClasses = append(cfg.WeightClasses, w)
	}

	if names, ok := raw.RuleSets["default"]; ok {
		rs, err := parseRuleSetNames(names)
		if err != nil {
			report.Error(0, "rulesets.default: %v", err)
		} else {
			cfg.DefaultRuleSet = rs
		}
	}

	for folder, ec := range raw.Exemptions {
		parsed := make([]Exemption, 0, len(ec.Exempt))
		for _, name := range ec.Exempt {
			switch Exemption(name) {
			case ExemptDivision, ExemptLiftOrder, ExemptWeightClassConsistency:
				parsed = append(parsed, Exemption(name))
			default:
				report.Error(0, "unknown exemption %q for meet folder %q", name, folder)
			}
		}
		cfg.exemptions[folder] = parsed
	}

	return cfg, report
}

func parseRuleSetNames(names []string) (opltypes.RuleSet, error) {
	rs, err := opltypes.ParseRuleSet(strings.Join(names, " "))
	if err != nil {
		return 0, err
	}
	return rs, nil
}
