package scenario

// State holds the toggles for the hypothetical interventions an operator
// has applied in this session. Numeric fields only ever grow; the sole
// way back to zero is an explicit Reset.
type State struct {
	ETAOffsetDays      int  `json:"eta_offset_days"`
	ExtraQty           int  `json:"extra_qty"`
	CarrierUpgradeDays int  `json:"carrier_upgrade_days"`
	QAFastTrack        bool `json:"qa_fast_track"`
	Resequence         bool `json:"resequence"`
	BatchChangeovers   bool `json:"batch_changeovers"`
}

// DefaultState returns the state of a fresh session: all toggles off.
func DefaultState() State {
	return State{}
}
