package settlement

import (
	"context"

	"github.com/osse101/PotSettle_Go/internal/logger"
)

// Escrow is the contract-calling layer that moves staked funds. This engine
// only tells it who the winners are.
type Escrow interface {
	Distribute(ctx context.Context, potID string, winners []string) error
}

// LogEscrow records the hand-off and moves nothing. It is the default when no
// contract client is wired.
type LogEscrow struct{}

// Distribute logs the winner list
func (LogEscrow) Distribute(ctx context.Context, potID string, winners []string) error {
	logger.FromContext(ctx).Info(LogMsgEscrowHandOff, "pot_id", potID, "winners", winners)
	return nil
}
