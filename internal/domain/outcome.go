package domain

import "time"

// OutcomeVote is a participant's report of the real-world outcome of a pot
type OutcomeVote struct {
	PotID       string    `json:"pot_id"`
	Participant string    `json:"participant"`
	Vote        Direction `json:"vote"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OutcomeStatus is a consensus snapshot computed against current membership
type OutcomeStatus struct {
	PotID            string     `json:"pot_id"`
	PositiveVotes    int        `json:"positive_votes"`
	NegativeVotes    int        `json:"negative_votes"`
	TotalVotes       int        `json:"total_votes"`
	ActiveMembers    int        `json:"active_members"`
	RequiredVotes    int        `json:"required_votes"`
	MajorityAchieved bool       `json:"majority_achieved"`
	MajorityOutcome  *Direction `json:"majority_outcome,omitempty"`
}

// RequiredVotes returns the simple-majority threshold for the given member count
func RequiredVotes(activeMembers int) int {
	return activeMembers/2 + 1
}
