package investment

import (
	"context"
	"time"

	"github.com/sahu-SuMiT/WeNews/internal/logger"
)

// InvestmentStatus is the full picture returned for "my investment":
// the persisted row plus the schedule math derived from it.
type InvestmentStatus struct {
	Investment     *UserInvestment `json:"investment"`
	DaysSinceStart int             `json:"days_since_start"`
	DaysRemaining  int             `json:"days_remaining"`
	CurrentLevel   int             `json:"current_level"`
	AvailableTiers []LevelTier     `json:"available_levels"`
	NextTier       *LevelTier      `json:"next_level,omitempty"`
}

type Service interface {
	Plans(ctx context.Context) ([]Plan, error)
	LevelStructure() LevelStructure
	Purchase(ctx context.Context, userID, planID int) (*UserInvestment, error)
	MyInvestment(ctx context.Context, userID int) (*InvestmentStatus, error)
	ClaimDaily(ctx context.Context, userID int) (*PayoutResult, error)
}

type service struct {
	repo   Repository
	levels LevelStructure
}

func NewService(repo Repository) Service {
	return &service{repo: repo, levels: DefaultLevelStructure()}
}

func (s *service) Plans(ctx context.Context) ([]Plan, error) {
	return s.repo.GetPlans(ctx, true)
}

func (s *service) LevelStructure() LevelStructure {
	return s.levels
}

func (s *service) Purchase(ctx context.Context, userID, planID int) (*UserInvestment, error) {
	return s.repo.Purchase(ctx, userID, planID)
}

// MyInvestment recomputes the chain level from the investment's age and
// referral count and persists it when it moved up. The persisted level is
// monotonic; the computed one is returned either way.
func (s *service) MyInvestment(ctx context.Context, userID int) (*InvestmentStatus, error) {
	ui, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	days := ui.DaysSinceStart(now)
	level := s.levels.CurrentLevel(days, ui.TotalReferrals)
	if level > ui.CurrentLevel {
		if err := s.repo.UpdateLevel(ctx, ui.ID, level); err != nil {
			logger.WithError(err).Error("failed to persist investment level")
		} else {
			ui.CurrentLevel = level
		}
	} else {
		// the stored level is monotonic; never report a demotion
		level = ui.CurrentLevel
	}

	remaining := int(time.Until(ui.ExpiryDate).Hours() / 24)
	if remaining < 0 {
		remaining = 0
	}

	st := &InvestmentStatus{
		Investment:     ui,
		DaysSinceStart: days,
		DaysRemaining:  remaining,
		CurrentLevel:   level,
		AvailableTiers: s.levels.AvailableTiers(days, ui.TotalReferrals),
	}
	for i := range s.levels {
		if s.levels[i].Level == level+1 {
			st.NextTier = &s.levels[i]
			break
		}
	}
	return st, nil
}

func (s *service) ClaimDaily(ctx context.Context, userID int) (*PayoutResult, error) {
	return s.repo.ClaimDaily(ctx, userID)
}
