package ledger

import (
	"context"
	"time"

	"cebim/internal/core"
	"cebim/internal/log"
)

// GoalStatus is the monthly goal measured against the current month's
// derived balance.
type GoalStatus struct {
	Goal     core.Money    `json:"goal"`
	Balance  core.Money    `json:"currentMonthBalance"`
	Progress core.Progress `json:"progress"`
}

// Goal returns the monthly goal. ok is false while no goal has been set.
func (s *Service) Goal(ctx context.Context) (core.Money, bool) {
	var goal core.Money
	ok := s.readJSON(ctx, goalKey, &goal)
	return goal, ok
}

// SetGoal overwrites the monthly goal; no history is kept. A non-positive
// amount leaves the stored goal unchanged.
func (s *Service) SetGoal(ctx context.Context, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveJSON(ctx, goalKey, amount); err != nil {
		return err
	}
	s.changed()
	s.logger.InfoContext(ctx, "Monthly goal saved",
		log.FieldOperation, log.OpUpdate,
		log.FieldAmountCents, amount.Cents)
	return nil
}

// GoalStatusAt computes progress for ref's calendar month. ok is false
// while the goal is unset; progress is not computed then and callers must
// check ok first.
func (s *Service) GoalStatusAt(ctx context.Context, ref time.Time) (GoalStatus, bool) {
	goal, ok := s.Goal(ctx)
	if !ok {
		return GoalStatus{}, false
	}
	balance := core.MonthlyBalance(s.Transactions(ctx), ref)
	return GoalStatus{
		Goal:     goal,
		Balance:  balance,
		Progress: core.GoalProgress(goal, balance),
	}, true
}
