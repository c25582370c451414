package domain

import "time"

// Settlement is the winner snapshot taken the first time winners are
// computed for a pot and date. Later vote changes do not alter it.
type Settlement struct {
	PotID          string    `json:"pot_id"`
	SettlementDate time.Time `json:"settlement_date"`
	Outcome        Direction `json:"outcome"`
	Winners        []string  `json:"winners"`
	ComputedAt     time.Time `json:"computed_at"`
}
