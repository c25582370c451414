package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voteLike struct {
	Participant string `json:"participant" validate:"required,participant"`
	Direction   string `json:"direction" validate:"required,direction"`
	Date        string `json:"date,omitempty" validate:"omitempty,civildate"`
	Note        string `validate:"max=4"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(s *voteLike)
		wantField string
	}{
		{"valid", func(s *voteLike) {}, ""},
		{"uppercase direction", func(s *voteLike) { s.Direction = "NEGATIVE" }, ""},
		{"empty date means today", func(s *voteLike) { s.Date = "" }, ""},
		{"missing direction", func(s *voteLike) { s.Direction = "" }, "direction"},
		{"bad direction", func(s *voteLike) { s.Direction = "up" }, "direction"},
		{"bad date", func(s *voteLike) { s.Date = "2024-02-30" }, "date"},
		{"participant with space", func(s *voteLike) { s.Participant = "a b" }, "participant"},
		{"participant control char", func(s *voteLike) { s.Participant = "a\x00" }, "participant"},
		{"participant too long", func(s *voteLike) { s.Participant = strings.Repeat("a", MaxParticipantLength+1) }, "participant"},
		{"blank participant", func(s *voteLike) { s.Participant = "   " }, "participant"},
		{"untagged field uses lowercase name", func(s *voteLike) { s.Note = "too long" }, "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := voteLike{Participant: "0xAbC", Direction: "positive", Date: "2024-03-04"}
			tt.mutate(&s)

			err := validateRequest(s)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := validationFields(err)
			assert.Len(t, fields, 1)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidationFields_Messages(t *testing.T) {
	err := validateRequest(voteLike{Participant: "a", Direction: "sideways", Note: "12345"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"direction": "Must be 'positive' or 'negative'",
		"note":      "Must be at most 4 characters",
	}, validationFields(err))
}

func TestValidationFields_NonValidationError(t *testing.T) {
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, validationFields(assert.AnError))
	assert.Nil(t, validationFields(nil))
}
