package opltypes

import (
	"fmt"
	"strings"
)

// Rule is a single rule of competition. By default, equipment divisions
// are assumed to be separate categories; a Rule can combine them or
// otherwise relax the usual validation.
type Rule uint32

const (
	RuleCombineRawAndWraps Rule = iota
	RuleCombineSingleAndMulti
	RuleCombineAllEquipment
	RuleFourthAttemptsMayLower
)

var ruleNames = map[Rule]string{
	RuleCombineRawAndWraps:     "CombineRawAndWraps",
	RuleCombineSingleAndMulti:  "CombineSingleAndMulti",
	RuleCombineAllEquipment:    "CombineAllEquipment",
	RuleFourthAttemptsMayLower: "FourthAttemptsMayLower",
}

func (r Rule) String() string { return ruleNames[r] }

// RuleSet is a packed bitfield of Rules, one per meet, parsed from a
// space-separated string in meet.csv or CONFIG.toml.
type RuleSet uint32

// Contains reports whether rule is active in the set.
func (rs RuleSet) Contains(rule Rule) bool {
	return rs&(1<<uint32(rule)) != 0
}

// Add returns a RuleSet with rule additionally set.
func (rs RuleSet) Add(rule Rule) RuleSet {
	return rs | (1 << uint32(rule))
}

// ParseRuleSet parses a space-separated list of rule names.
func ParseRuleSet(s string) (RuleSet, error) {
	var rs RuleSet
	s = strings.TrimSpace(s)
	if s == "" {
		return rs, nil
	}
	for _, tok := range strings.Fields(s) {
		rule, ok := parseRuleName(tok)
		if !ok {
			return 0, fmt.Errorf("opltypes: unknown rule %q", tok)
		}
		rs = rs.Add(rule)
	}
	return rs, nil
}

func parseRuleName(s string) (Rule, bool) {
	for rule, name := range ruleNames {
		if name == s {
			return rule, true
		}
	}
	return 0, false
}
