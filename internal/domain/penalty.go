package domain

import "time"

// PenaltyRecord marks a participant as penalized once for a missed prediction.
// At most one exists per (PotID, Participant).
type PenaltyRecord struct {
	PotID       string    `json:"pot_id"`
	Participant string    `json:"participant"`
	PenalizedOn time.Time `json:"penalized_on"`
	CreatedAt   time.Time `json:"created_at"`
}

// PenaltyCheckResult describes which rule decided a missed-prediction check
type PenaltyCheckResult string

const (
	PenaltyResultResetDay         PenaltyCheckResult = "reset_day"
	PenaltyResultNotMember        PenaltyCheckResult = "not_member"
	PenaltyResultAlreadyPenalized PenaltyCheckResult = "already_penalized"
	PenaltyResultJoinedToday      PenaltyCheckResult = "joined_today"
	PenaltyResultComplied         PenaltyCheckResult = "complied"
	PenaltyResultPenalized        PenaltyCheckResult = "penalized"
)

// PenaltyCheck is the outcome of a single missed-prediction check
type PenaltyCheck struct {
	PotID       string             `json:"pot_id"`
	Participant string             `json:"participant"`
	Date        time.Time          `json:"date"`
	Result      PenaltyCheckResult `json:"result"`
}

// Penalized reports whether this check inserted the penalty record
func (c PenaltyCheck) Penalized() bool {
	return c.Result == PenaltyResultPenalized
}
