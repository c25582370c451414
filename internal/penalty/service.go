// Package penalty marks members who skipped a required daily prediction,
// exactly once per pot.
package penalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/concurrency"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/eligibility"
	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/ledger"
	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/metrics"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

// Service defines the penalty engine operations
type Service interface {
	CheckMissedPredictionPenalty(ctx context.Context, potID, participant string) (domain.PenaltyCheckResult, error)
	IsPenalized(ctx context.Context, potID, participant string) (bool, error)
	CanReEnter(ctx context.Context, potID, participant string) (bool, error)
	ListPenalties(ctx context.Context, potID string) ([]domain.PenaltyRecord, error)
	SweepPot(ctx context.Context, potID string) (*SweepResult, error)
	SweepAll(ctx context.Context) (*SweepSummary, error)
}

// SweepResult summarizes one pot's end-of-day sweep
type SweepResult struct {
	PotID     string    `json:"pot_id"`
	Date      time.Time `json:"date"`
	Skipped   bool      `json:"skipped"`
	Checked   int       `json:"checked"`
	Penalized []string  `json:"penalized"`
	Failed    int       `json:"failed"`
}

// SweepSummary aggregates a sweep over every pot
type SweepSummary struct {
	Date      time.Time `json:"date"`
	Pots      int       `json:"pots"`
	Checked   int       `json:"checked"`
	Penalized int       `json:"penalized"`
	Failed    int       `json:"failed"`
}

type service struct {
	store     repository.Store
	cal       *calendar.Calendar
	locks     *concurrency.LockManager
	publisher *event.ResilientPublisher
}

// NewService creates a new penalty engine. publisher may be nil.
func NewService(store repository.Store, cal *calendar.Calendar, locks *concurrency.LockManager, publisher *event.ResilientPublisher) Service {
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &service{store: store, cal: cal, locks: locks, publisher: publisher}
}

// CheckMissedPredictionPenalty runs whenever a participant interacts with a
// pot. Rules apply in order and the first match decides:
//
//  1. today is the reset day
//  2. the participant is not active today
//  3. the participant is already penalized
//  4. the participant joined today
//  5. the participant predicted today
//  6. otherwise a penalty is inserted
//
// Steps 2 to 6 share one transaction. The penalty primary key makes the insert
// the final arbiter: a concurrent winner turns this call into AlreadyPenalized.
func (s *service) CheckMissedPredictionPenalty(ctx context.Context, potID, participant string) (domain.PenaltyCheckResult, error) {
	potID, participant, err := ledger.NormalizeKey(potID, participant)
	if err != nil {
		return "", err
	}
	return s.checkOn(ctx, potID, participant, s.cal.Today())
}

// checkOn evaluates one participant against a fixed calendar day
func (s *service) checkOn(ctx context.Context, potID, participant string, today time.Time) (domain.PenaltyCheckResult, error) {
	log := logger.FromContext(ctx)

	if s.cal.IsResetDay(today) {
		s.record(ctx, potID, participant, today, domain.PenaltyResultResetDay)
		return domain.PenaltyResultResetDay, nil
	}

	unlock := s.locks.Lock(potID + lockKeySeparator + participant)
	defer unlock()

	var result domain.PenaltyCheckResult
	var rec *domain.PenaltyRecord

	err := s.store.WithTx(ctx, repository.ReadCommitted, func(q repository.Queries) error {
		var err error
		result, rec, err = s.evaluate(ctx, q, potID, participant, today)
		return err
	})
	if err != nil {
		log.Error(LogMsgPenaltyCheckError, "pot_id", potID, "participant", participant, "error", err)
		return "", fmt.Errorf("%s: %w", ErrContextCheck, err)
	}

	s.record(ctx, potID, participant, today, result)
	if rec != nil && s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewPenaltyEvent(*rec))
	}
	return result, nil
}

func (s *service) evaluate(ctx context.Context, q repository.Queries, potID, participant string, today time.Time) (domain.PenaltyCheckResult, *domain.PenaltyRecord, error) {
	active, err := eligibility.NewResolver(q).IsActiveOn(ctx, potID, participant, today)
	if err != nil {
		return "", nil, err
	}
	if !active {
		return domain.PenaltyResultNotMember, nil, nil
	}

	penalized, err := q.HasPenalty(ctx, potID, participant)
	if err != nil {
		return "", nil, err
	}
	if penalized {
		return domain.PenaltyResultAlreadyPenalized, nil, nil
	}

	joinedToday, err := q.HasJoinOn(ctx, potID, participant, today)
	if err != nil {
		return "", nil, err
	}
	if joinedToday {
		return domain.PenaltyResultJoinedToday, nil, nil
	}

	prediction, err := q.GetPrediction(ctx, potID, participant, today)
	if err != nil {
		return "", nil, err
	}
	if prediction != nil {
		return domain.PenaltyResultComplied, nil, nil
	}

	rec := &domain.PenaltyRecord{
		PotID:       potID,
		Participant: participant,
		PenalizedOn: today,
		CreatedAt:   s.cal.Now().UTC(),
	}
	inserted, err := q.InsertPenalty(ctx, rec)
	if err != nil {
		return "", nil, err
	}
	if !inserted {
		logger.FromContext(ctx).Debug(domain.ErrMsgAlreadyPenalized, "pot_id", potID, "participant", participant)
		return domain.PenaltyResultAlreadyPenalized, nil, nil
	}
	return domain.PenaltyResultPenalized, rec, nil
}

func (s *service) record(ctx context.Context, potID, participant string, date time.Time, result domain.PenaltyCheckResult) {
	metrics.PenaltyChecks.WithLabelValues(string(result)).Inc()

	log := logger.FromContext(ctx)
	if result == domain.PenaltyResultPenalized {
		log.Info(LogMsgPenaltyApplied, "pot_id", potID, "participant", participant, "date", calendar.FormatDate(date))
		return
	}
	log.Debug(LogMsgPenaltyNoAction, "pot_id", potID, "participant", participant, "result", result)
}

// IsPenalized reports whether a penalty record exists
func (s *service) IsPenalized(ctx context.Context, potID, participant string) (bool, error) {
	potID, participant, err := ledger.NormalizeKey(potID, participant)
	if err != nil {
		return false, err
	}

	penalized, err := s.store.HasPenalty(ctx, potID, participant)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrContextIsPenalized, err)
	}
	return penalized, nil
}

// CanReEnter reports whether the caller may allow a re-entry. The ledger
// itself never rejects a ReEntry; this guard is for the layer that decides
// whether to accept the on-chain action.
func (s *service) CanReEnter(ctx context.Context, potID, participant string) (bool, error) {
	penalized, err := s.IsPenalized(ctx, potID, participant)
	if err != nil {
		return false, err
	}
	return !penalized, nil
}

func (s *service) ListPenalties(ctx context.Context, potID string) ([]domain.PenaltyRecord, error) {
	records, err := s.store.ListPenalties(ctx, potID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextIsPenalized, err)
	}
	return records, nil
}

// SweepPot checks every participant active today. The day is read once so a
// sweep crossing midnight judges every participant against the same date. A
// failure for one participant is counted and the sweep continues.
func (s *service) SweepPot(ctx context.Context, potID string) (*SweepResult, error) {
	log := logger.FromContext(ctx)
	today := s.cal.Today()

	result := &SweepResult{PotID: potID, Date: today, Penalized: []string{}}
	if s.cal.IsResetDay(today) {
		result.Skipped = true
		return result, nil
	}

	participants, err := eligibility.NewResolver(s.store).EligibleParticipants(ctx, potID, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextSweep, err)
	}

	var errs []error
	for _, participant := range participants {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome, err := s.checkOn(ctx, potID, participant, today)
		result.Checked++
		if err != nil {
			result.Failed++
			errs = append(errs, err)
			continue
		}
		if outcome == domain.PenaltyResultPenalized {
			result.Penalized = append(result.Penalized, participant)
		}
	}

	if len(errs) > 0 {
		log.Warn(LogMsgSweepPotFailed, "pot_id", potID, "failed", result.Failed, "error", errors.Join(errs...))
	}
	return result, nil
}

// SweepAll runs SweepPot over every registered pot
func (s *service) SweepAll(ctx context.Context) (*SweepSummary, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	potIDs, err := s.store.ListPotIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextListPots, err)
	}

	summary := &SweepSummary{Date: s.cal.Today()}
	log.Info(LogMsgSweepStarted, "pots", len(potIDs), "date", calendar.FormatDate(summary.Date))

	for _, potID := range potIDs {
		res, err := s.SweepPot(ctx, potID)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			log.Error(LogMsgSweepPotFailed, "pot_id", potID, "error", err)
			summary.Failed++
			continue
		}
		summary.Pots++
		summary.Checked += res.Checked
		summary.Penalized += len(res.Penalized)
		summary.Failed += res.Failed
	}

	log.Info(LogMsgSweepFinished,
		"pots", summary.Pots,
		"checked", summary.Checked,
		"penalized", summary.Penalized,
		"failed", summary.Failed,
		"duration", time.Since(start))

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.New(event.SweepCompleted, event.SweepCompletedPayloadV1{
			Date:      calendar.FormatDate(summary.Date),
			Pots:      summary.Pots,
			Checked:   summary.Checked,
			Penalized: summary.Penalized,
			Failed:    summary.Failed,
			RanAt:     time.Now().UTC(),
		}))
	}
	return summary, nil
}
