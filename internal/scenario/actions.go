package scenario

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnrecognizedAction is returned when an action label matches no rule.
// The state is left untouched.
var ErrUnrecognizedAction = errors.New("unrecognized action")

// Rule binds a set of trigger phrases to a state mutation. Matching is a
// case-insensitive substring check against the action label.
type Rule struct {
	Name    string
	Phrases []string
	Effect  func(*State)
}

// Rules is the ordered action vocabulary. The first matching rule wins,
// so order matters: "carrier" would also match labels meant for other
// rules if it were checked earlier.
var Rules = []Rule{
	{
		Name:    "expedite_po",
		Phrases: []string{"expedited po", "eta_minus_days"},
		Effect:  func(s *State) { s.ETAOffsetDays += 2 },
	},
	{
		Name:    "alternate_supplier",
		Phrases: []string{"alternate supplier", "add_qty"},
		Effect:  func(s *State) { s.ExtraQty += 500 },
	},
	{
		Name:    "upgrade_carrier",
		Phrases: []string{"carrier", "air"},
		Effect:  func(s *State) { s.CarrierUpgradeDays++ },
	},
	{
		Name:    "qa_fast_track",
		Phrases: []string{"qa fast", "enable_alt_material"},
		Effect:  func(s *State) { s.QAFastTrack = true },
	},
	{
		Name:    "resequence",
		Phrases: []string{"re-sequence", "resequence"},
		Effect:  func(s *State) { s.Resequence = true },
	},
	{
		Name:    "batch_changeovers",
		Phrases: []string{"batch change"},
		Effect:  func(s *State) { s.BatchChangeovers = true },
	},
}

// MatchRule resolves an action label to the first rule whose phrases it
// contains. Returns ErrUnrecognizedAction when nothing matches.
func MatchRule(label string) (*Rule, error) {
	lowered := strings.ToLower(label)
	for i := range Rules {
		for _, phrase := range Rules[i].Phrases {
			if strings.Contains(lowered, phrase) {
				return &Rules[i], nil
			}
		}
	}
	return nil, errors.Wrapf(ErrUnrecognizedAction, "label %q", label)
}
