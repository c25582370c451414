package memory

import (
	"context"
	"sort"
	"time"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// Pots

func (v *view) CreatePot(_ context.Context, pot *domain.Pot) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if _, ok := v.st.pots[pot.ID]; ok {
		return domain.ErrPotAlreadyExists
	}
	v.st.pots[pot.ID] = *pot
	return nil
}

func (v *view) GetPot(_ context.Context, potID string) (*domain.Pot, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	pot, ok := v.st.pots[potID]
	if !ok {
		return nil, nil
	}
	return &pot, nil
}

func (v *view) ListPots(_ context.Context, limit int) ([]domain.Pot, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	pots := make([]domain.Pot, 0, len(v.st.pots))
	for _, p := range v.st.pots {
		pots = append(pots, p)
	}
	sort.Slice(pots, func(i, j int) bool {
		if !pots[i].CreatedAt.Equal(pots[j].CreatedAt) {
			return pots[i].CreatedAt.After(pots[j].CreatedAt)
		}
		return pots[i].ID < pots[j].ID
	})
	if limit > 0 && len(pots) > limit {
		pots = pots[:limit]
	}
	return pots, nil
}

func (v *view) ListPotIDs(_ context.Context) ([]string, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	seen := make(map[string]struct{}, len(v.st.pots))
	for id := range v.st.pots {
		seen[id] = struct{}{}
	}
	for _, e := range v.st.events {
		seen[e.PotID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (v *view) UpdatePot(_ context.Context, pot *domain.Pot) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if _, ok := v.st.pots[pot.ID]; !ok {
		return domain.ErrPotNotFound
	}
	v.st.pots[pot.ID] = *pot
	return nil
}

func (v *view) DeletePot(_ context.Context, potID string) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	delete(v.st.pots, potID)
	return nil
}

// Ledger

func (v *view) AppendEvent(_ context.Context, evt *domain.ParticipationEvent) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.st.nextSeq++
	evt.Seq = v.st.nextSeq
	v.st.events = append(v.st.events, *evt)
	return nil
}

func (v *view) ListParticipantEvents(_ context.Context, potID, participant string, upTo time.Time) ([]domain.ParticipationEvent, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	return v.filterEvents(func(e domain.ParticipationEvent) bool {
		return e.PotID == potID && e.Participant == participant && !e.EventDate.After(upTo)
	}), nil
}

func (v *view) ListPotEvents(_ context.Context, potID string, upTo time.Time) ([]domain.ParticipationEvent, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	return v.filterEvents(func(e domain.ParticipationEvent) bool {
		return e.PotID == potID && !e.EventDate.After(upTo)
	}), nil
}

func (v *view) ListParticipantHistory(_ context.Context, potID, participant string) ([]domain.ParticipationEvent, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	return v.filterEvents(func(e domain.ParticipationEvent) bool {
		return e.PotID == potID && e.Participant == participant
	}), nil
}

func (v *view) HasJoinOn(_ context.Context, potID, participant string, date time.Time) (bool, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	for _, e := range v.st.events {
		if e.PotID == potID && e.Participant == participant && e.Type.IsJoin() && e.EventDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (v *view) ClearLedger(_ context.Context, potID string) (int64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	kept := v.st.events[:0]
	var removed int64
	for _, e := range v.st.events {
		if e.PotID == potID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	v.st.events = kept
	return removed, nil
}

// filterEvents returns matching events in ledger order. Caller holds the lock.
func (v *view) filterEvents(match func(domain.ParticipationEvent) bool) []domain.ParticipationEvent {
	var out []domain.ParticipationEvent
	for _, e := range v.st.events {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Predictions

func (v *view) UpsertPrediction(_ context.Context, p *domain.Prediction) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.st.predictions[predictionKey{p.PotID, p.Participant, dateKey(p.PredictionDate)}] = *p
	return nil
}

func (v *view) GetPrediction(_ context.Context, potID, participant string, date time.Time) (*domain.Prediction, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	p, ok := v.st.predictions[predictionKey{potID, participant, dateKey(date)}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (v *view) ListPredictions(_ context.Context, potID string, date time.Time) ([]domain.Prediction, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	day := dateKey(date)
	var out []domain.Prediction
	for k, p := range v.st.predictions {
		if k.potID == potID && k.date == day {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Participant < out[j].Participant })
	return out, nil
}

func (v *view) DeletePredictions(_ context.Context, potID string) (int64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	var removed int64
	for k := range v.st.predictions {
		if k.potID == potID {
			delete(v.st.predictions, k)
			removed++
		}
	}
	return removed, nil
}

// Penalties

func (v *view) InsertPenalty(_ context.Context, rec *domain.PenaltyRecord) (bool, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	key := memberKey{rec.PotID, rec.Participant}
	if _, ok := v.st.penalties[key]; ok {
		return false, nil
	}
	v.st.penalties[key] = *rec
	return true, nil
}

func (v *view) HasPenalty(_ context.Context, potID, participant string) (bool, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	_, ok := v.st.penalties[memberKey{potID, participant}]
	return ok, nil
}

func (v *view) ListPenalties(_ context.Context, potID string) ([]domain.PenaltyRecord, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	var out []domain.PenaltyRecord
	for k, rec := range v.st.penalties {
		if k.potID == potID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Participant < out[j].Participant
	})
	return out, nil
}

func (v *view) DeletePenalties(_ context.Context, potID string) (int64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	var removed int64
	for k := range v.st.penalties {
		if k.potID == potID {
			delete(v.st.penalties, k)
			removed++
		}
	}
	return removed, nil
}

// Outcome votes

func (v *view) UpsertOutcomeVote(_ context.Context, vote *domain.OutcomeVote) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.st.votes[memberKey{vote.PotID, vote.Participant}] = *vote
	return nil
}

func (v *view) ListOutcomeVotes(_ context.Context, potID string) ([]domain.OutcomeVote, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	var out []domain.OutcomeVote
	for k, vote := range v.st.votes {
		if k.potID == potID {
			out = append(out, vote)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Participant < out[j].Participant })
	return out, nil
}

func (v *view) DeleteOutcomeVotes(_ context.Context, potID string) (int64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	var removed int64
	for k := range v.st.votes {
		if k.potID == potID {
			delete(v.st.votes, k)
			removed++
		}
	}
	return removed, nil
}

// Settlements

func (v *view) SaveSettlement(_ context.Context, s *domain.Settlement) (bool, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	key := settlementKey{s.PotID, dateKey(s.SettlementDate)}
	if _, ok := v.st.settlements[key]; ok {
		return false, nil
	}
	stored := *s
	stored.Winners = append([]string(nil), s.Winners...)
	v.st.settlements[key] = stored
	return true, nil
}

func (v *view) GetSettlement(_ context.Context, potID string, date time.Time) (*domain.Settlement, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	s, ok := v.st.settlements[settlementKey{potID, dateKey(date)}]
	if !ok {
		return nil, nil
	}
	s.Winners = append([]string(nil), s.Winners...)
	return &s, nil
}

func (v *view) DeleteSettlements(_ context.Context, potID string) (int64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	var removed int64
	for k := range v.st.settlements {
		if k.potID == potID {
			delete(v.st.settlements, k)
			removed++
		}
	}
	return removed, nil
}
