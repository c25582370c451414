package domain

import (
	"fmt"
	"strings"
	"time"
)

// Direction is a directional call, used both for daily predictions and outcome votes
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == DirectionPositive || d == DirectionNegative
}

// ParseDirection parses a direction case-insensitively
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Prediction is a participant's call for one pot and civil date.
// At most one exists per (PotID, Participant, PredictionDate).
type Prediction struct {
	PotID          string    `json:"pot_id"`
	Participant    string    `json:"participant"`
	PredictionDate time.Time `json:"prediction_date"`
	Direction      Direction `json:"direction"`
	CreatedAt      time.Time `json:"created_at"`
}
