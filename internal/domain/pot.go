package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pot is the master record of a single prediction-market instance.
// ID is immutable and keys every child record.
type Pot struct {
	ID          string          `json:"pot_id"`
	Creator     string          `json:"creator"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	EntryAmount decimal.Decimal `json:"entry_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PotPatch carries the creator-mutable fields of a pot. Nil fields are left unchanged.
type PotPatch struct {
	Name        *string
	Description *string
	EntryAmount *decimal.Decimal
}

// IsCreator reports whether the participant created the pot
func (p *Pot) IsCreator(participant string) bool {
	return p != nil && p.Creator == NormalizeParticipant(participant)
}
