//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"aiblty-platform/internal/usecase"
)

// MockCounter stands in for the redis usage counter.
type MockCounter struct {
	Totals  map[string]int
	UsedErr error
	AddErr  error
}

func NewMockCounter() *MockCounter {
	return &MockCounter{Totals: make(map[string]int)}
}

func (m *MockCounter) Add(ctx context.Context, userID string, tokens int) (int, error) {
	if m.AddErr != nil {
		return 0, m.AddErr
	}
	m.Totals[userID] += tokens
	return m.Totals[userID], nil
}

func (m *MockCounter) Used(ctx context.Context, userID string) (int, error) {
	if m.UsedErr != nil {
		return 0, m.UsedErr
	}
	return m.Totals[userID], nil
}

func TestUsage_CheckUnderLimit(t *testing.T) {
	counter := NewMockCounter()
	counter.Totals["user-1"] = 400
	logger := zerolog.Nop()
	uc := usecase.NewUsageUseCase(counter, 1000, "free", &logger)

	st, err := uc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !st.CanProceed {
		t.Error("expected CanProceed under the limit")
	}
	if st.TokensUsed != 400 || st.Remaining != 600 || st.DailyLimit != 1000 || st.Plan != "free" {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestUsage_CheckBlocksAtLimit(t *testing.T) {
	counter := NewMockCounter()
	counter.Totals["user-1"] = 1000
	logger := zerolog.Nop()
	uc := usecase.NewUsageUseCase(counter, 1000, "free", &logger)

	st, _ := uc.Check(context.Background(), "user-1")
	if st.CanProceed {
		t.Error("expected block at the limit")
	}
	if st.Remaining != 0 {
		t.Errorf("expected zero remaining, got %d", st.Remaining)
	}
}

func TestUsage_FailsOpenOnCounterError(t *testing.T) {
	counter := NewMockCounter()
	counter.UsedErr = errors.New("redis down")
	logger := zerolog.Nop()
	uc := usecase.NewUsageUseCase(counter, 1000, "free", &logger)

	st, err := uc.Check(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Check must not propagate counter errors: %v", err)
	}
	if !st.CanProceed {
		t.Error("gate must fail open when the counter is unavailable")
	}
}

func TestUsage_ZeroLimitDisablesGate(t *testing.T) {
	counter := NewMockCounter()
	counter.Totals["user-1"] = 999999
	logger := zerolog.Nop()
	uc := usecase.NewUsageUseCase(counter, 0, "enterprise", &logger)

	st, _ := uc.Check(context.Background(), "user-1")
	if !st.CanProceed {
		t.Error("a zero limit must disable the gate")
	}
}

func TestUsage_RecordAccumulates(t *testing.T) {
	counter := NewMockCounter()
	logger := zerolog.Nop()
	uc := usecase.NewUsageUseCase(counter, 1000, "free", &logger)

	uc.Record(context.Background(), "user-1", 100)
	uc.Record(context.Background(), "user-1", 50)
	uc.Record(context.Background(), "user-1", 0) // no-op

	if counter.Totals["user-1"] != 150 {
		t.Errorf("expected 150 tokens recorded, got %d", counter.Totals["user-1"])
	}
}
