// Package notifier computes budget spend and sends the one-shot threshold
// alert for every budget that crosses its limit.
package notifier

import (
	"context"
	"fmt"
	"time"

	"gajanji-server/src/insights"
	"gajanji-server/src/logger"
	"gajanji-server/src/mail"
	"gajanji-server/src/models"

	"golang.org/x/sync/errgroup"
)

type Store interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SumExpensesByCategory(ctx context.Context, userID, category string, from, to *time.Time) (float64, error)
	MarkBudgetNotified(ctx context.Context, id string, at time.Time) (bool, error)
	ResetBudgetNotification(ctx context.Context, id string) error
}

type Config struct {
	Concurrency int
	Location    *time.Location
	// BudgetsURL is linked from alert emails.
	BudgetsURL string
}

type Notifier struct {
	store  Store
	sender mail.Sender
	cfg    Config
	log    *logger.Logger
	now    func() time.Time
}

func New(store Store, sender mail.Sender, cfg Config, log *logger.Logger) *Notifier {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Notifier{
		store:  store,
		sender: sender,
		cfg:    cfg,
		log:    log.WithComponent(logger.ComponentNotifier),
		now:    time.Now,
	}
}

// Spent totals the expenses counting against b in its current window.
func (n *Notifier) Spent(ctx context.Context, b models.Budget) (float64, error) {
	from, to := insights.BudgetWindow(b, n.now(), n.cfg.Location)
	spent, err := n.store.SumExpensesByCategory(ctx, b.UserID, b.Category, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to sum spend for budget %s: %w", b.ID, err)
	}
	return spent, nil
}

// Evaluate enriches the user's budgets with their spend and alerts on those at
// or over threshold. Only spend lookups can fail the call; alert failures are
// logged and dropped.
func (n *Notifier) Evaluate(ctx context.Context, userID string, budgets []models.Budget) ([]models.BudgetWithSpent, error) {
	now := n.now()
	out := make([]models.BudgetWithSpent, len(budgets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.cfg.Concurrency)
	for i := range budgets {
		out[i].Budget = budgets[i]
		g.Go(func() error {
			b := &out[i].Budget
			if insights.Rearms(*b, now, n.cfg.Location) {
				if err := n.store.ResetBudgetNotification(gctx, b.ID); err != nil {
					n.log.Error("Failed to re-arm budget", logger.FieldBudgetID, b.ID, logger.FieldError, err)
				} else {
					b.Notified = false
					b.LastNotifiedAt = nil
				}
			}
			spent, err := n.Spent(gctx, *b)
			if err != nil {
				return err
			}
			out[i].Spent = spent
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n.notify(ctx, userID, out, now)
	return out, nil
}

func (n *Notifier) notify(ctx context.Context, userID string, budgets []models.BudgetWithSpent, now time.Time) {
	var due []int
	for i, b := range budgets {
		if Due(b.Budget, b.Spent) {
			due = append(due, i)
		}
	}
	if len(due) == 0 {
		return
	}

	user, err := n.store.GetUserByID(ctx, userID)
	if err != nil {
		n.log.Error("Failed to load user for budget alerts", logger.FieldUserID, userID, logger.FieldError, err)
		return
	}
	if !user.Mailing {
		n.log.Debug("Mail notifications disabled, skipping budget alerts", logger.FieldUserID, userID)
		return
	}

	var g errgroup.Group
	g.SetLimit(n.cfg.Concurrency)
	for _, i := range due {
		g.Go(func() error {
			if n.alert(ctx, user, budgets[i].Budget, budgets[i].Spent, now) {
				budgets[i].Notified = true
				at := now
				budgets[i].LastNotifiedAt = &at
			}
			return nil
		})
	}
	_ = g.Wait()
}

// alert claims the budget's guard and sends the email. The guard is released
// when the send fails.
func (n *Notifier) alert(ctx context.Context, user *models.User, b models.Budget, spent float64, now time.Time) bool {
	log := n.log.With(logger.FieldBudgetID, b.ID, logger.FieldUserID, user.ID)

	claimed, err := n.store.MarkBudgetNotified(ctx, b.ID, now)
	if err != nil {
		log.Error("Failed to claim budget alert", logger.FieldError, err)
		return false
	}
	if !claimed {
		return false
	}

	msg, err := mail.BudgetAlertEmail(user, b, spent, Percent(b, spent), n.cfg.BudgetsURL)
	if err == nil {
		err = n.sender.Send(ctx, msg)
	}
	if err != nil {
		log.Error("Failed to send budget alert", logger.FieldError, err)
		if err := n.store.ResetBudgetNotification(context.WithoutCancel(ctx), b.ID); err != nil {
			log.Error("Failed to release budget alert", logger.FieldError, err)
		}
		return false
	}

	log.Info("Budget alert sent", "to", user.Email, "percent", Percent(b, spent))
	return true
}

// Percent is spent as a share of the budget amount, 0 for non-positive amounts.
func Percent(b models.Budget, spent float64) float64 {
	if b.Amount <= 0 {
		return 0
	}
	return spent / b.Amount * 100
}

// Due reports whether b has crossed its threshold and has not alerted yet.
func Due(b models.Budget, spent float64) bool {
	if b.Notified || b.Amount <= 0 {
		return false
	}
	threshold := b.ThresholdNotify
	if threshold <= 0 {
		threshold = models.DefaultThresholdNotify
	}
	return Percent(b, spent) >= threshold
}
