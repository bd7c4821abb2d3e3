package models

import "time"

type RuleType string

const (
	RuleCoRun           RuleType = "coRun"
	RuleSlotRestriction RuleType = "slotRestriction"
	RuleLoadLimit       RuleType = "loadLimit"
	RulePhaseWindow     RuleType = "phaseWindow"
	RulePatternMatch    RuleType = "patternMatch"
	RulePrecedence      RuleType = "precedence"
)

// Rule is one captured allocation rule. Rules are configuration only:
// they are written to the exported rules.json and never executed against
// the collections.
type Rule struct {
	ID               string    `json:"id"`
	Type             RuleType  `json:"type"`
	TaskIDs          []string  `json:"tasks,omitempty"`            // coRun, precedence
	Group            string    `json:"group,omitempty"`            // slotRestriction, loadLimit
	MinCommonSlots   int       `json:"minCommonSlots,omitempty"`   // slotRestriction
	MaxSlotsPerPhase int       `json:"maxSlotsPerPhase,omitempty"` // loadLimit
	TaskID           string    `json:"task,omitempty"`             // phaseWindow
	AllowedPhases    []int     `json:"allowedPhases,omitempty"`    // phaseWindow
	Regex            string    `json:"regex,omitempty"`            // patternMatch
	Template         string    `json:"template,omitempty"`         // patternMatch
	Priority         int       `json:"priority,omitempty"`         // precedence ordering
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Priority is one key-weight pair of the allocation priority profile.
type Priority struct {
	Key    string  `json:"key" yaml:"key"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// ExportConfig is the shape of the exported rules.json file.
type ExportConfig struct {
	Rules      []Rule     `json:"rules"`
	Priorities []Priority `json:"priorities"`
	ExportedAt time.Time  `json:"exportedAt"`
}
