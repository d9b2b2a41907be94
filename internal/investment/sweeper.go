package investment

import (
	"context"
	"time"

	"github.com/sahu-SuMiT/WeNews/internal/logger"
	"github.com/sahu-SuMiT/WeNews/internal/metrics"

	"github.com/go-co-op/gocron/v2"
)

// ExpiryNotifier tells a holder their plan closed. Satisfied by the
// notification dispatcher.
type ExpiryNotifier interface {
	NotifyInvestmentExpired(ctx context.Context, userID int, planName string) error
}

// Sweeper periodically expires investments past their validity window and
// refreshes the active-investments gauge.
type Sweeper struct {
	repo      Repository
	notifier  ExpiryNotifier
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewSweeper(repo Repository, notifier ExpiryNotifier, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		repo:     repo,
		notifier: notifier,
		interval: interval,
	}
}

func (s *Sweeper) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweep),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	s.scheduler = sched
	sched.Start()
	logger.Infof("investment sweeper started: interval=%s", s.interval)
	return nil
}

func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			logger.WithError(err).Error("failed to stop investment sweeper")
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.repo.ExpireDue(ctx)
	if err != nil {
		logger.WithError(err).Error("investment expiry sweep failed")
	} else if len(expired) > 0 {
		logger.Infof("investment sweep: expired %d investments", len(expired))
		for _, e := range expired {
			if s.notifier == nil {
				continue
			}
			if err := s.notifier.NotifyInvestmentExpired(ctx, e.UserID, e.PlanName); err != nil {
				logger.WithError(err).Error("failed to queue expiry notification")
			}
		}
	}

	counts, err := s.repo.CountActiveByPlan(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to count active investments")
		return
	}
	for plan, n := range counts {
		metrics.ActiveInvestments.WithLabelValues(plan).Set(float64(n))
	}
}
