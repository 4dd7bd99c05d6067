package settlement

import (
	"context"

	"go.uber.org/zap"

	"github.com/modelzoo-market/mz-indexer/internal/logger"
)

// LogTransferor acknowledges withdrawals without moving value. Deployments
// where payouts are executed by an out-of-band treasury process use this as
// the in-process transferor; the withdrawal event stream is the treasury's
// work queue.
type LogTransferor struct{}

// NewLogTransferor creates a transferor that only records transfers
func NewLogTransferor() Transferor {
	return &LogTransferor{}
}

func (t *LogTransferor) Transfer(ctx context.Context, to string, amount uint64) error {
	logger.InfoCtx(ctx, "Withdrawal transfer recorded",
		zap.String("to", to),
		zap.Uint64("amount", amount),
	)
	return nil
}
