package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"aiblty-platform/internal/infra/metrics"
)

// Compile-time check
var _ UsageUseCase = (*usageUC)(nil)

// UsageStatus is the gate decision for one user at one moment.
type UsageStatus struct {
	CanProceed bool
	TokensUsed int
	DailyLimit int
	Remaining  int
	Plan       string
}

type UsageUseCase interface {
	// Check reports whether the user may start another run today.
	Check(ctx context.Context, userID string) (*UsageStatus, error)
	// Record adds consumed tokens to today's bucket.
	Record(ctx context.Context, userID string, tokens int) error
}

// usageCounter is the slice of the redis counter this use case needs.
type usageCounter interface {
	Add(ctx context.Context, userID string, tokens int) (int, error)
	Used(ctx context.Context, userID string) (int, error)
}

type usageUC struct {
	counter    usageCounter
	dailyLimit int
	plan       string
	log        *zerolog.Logger
}

func NewUsageUseCase(counter usageCounter, dailyLimit int, plan string, log *zerolog.Logger) *usageUC {
	return &usageUC{counter: counter, dailyLimit: dailyLimit, plan: plan, log: log}
}

// Check fails open: the counter is telemetry-grade, so a Redis outage must
// not take down the run path.
func (u *usageUC) Check(ctx context.Context, userID string) (*UsageStatus, error) {
	status := &UsageStatus{CanProceed: true, DailyLimit: u.dailyLimit, Plan: u.plan}
	if u.dailyLimit <= 0 {
		return status, nil
	}

	used, err := u.counter.Used(ctx, userID)
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("usage check failed, allowing run")
		status.Remaining = u.dailyLimit
		return status, nil
	}

	status.TokensUsed = used
	status.Remaining = u.dailyLimit - used
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	if used >= u.dailyLimit {
		status.CanProceed = false
		metrics.IncUsageBlock(u.plan)
	}
	return status, nil
}

func (u *usageUC) Record(ctx context.Context, userID string, tokens int) error {
	if tokens <= 0 {
		return nil
	}
	if _, err := u.counter.Add(ctx, userID, tokens); err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("usage record failed")
		return err
	}
	return nil
}
