package earning

import (
	"context"
	"fmt"

	"github.com/sahu-SuMiT/WeNews/internal/level"
	"github.com/sahu-SuMiT/WeNews/internal/logger"
	"github.com/sahu-SuMiT/WeNews/internal/metrics"
)

type Service interface {
	// ClaimDailyLogin pays the once-per-day login reward: base amount plus
	// floor(level * 0.5), and grants login experience on top.
	ClaimDailyLogin(ctx context.Context, userID int) (*DailyLoginResult, error)
}

type service struct {
	repo      Repository
	levelRepo level.Repository

	baseReward int64
	loginExp   int64
}

func NewService(repo Repository, levelRepo level.Repository, baseReward, loginExp int64) Service {
	return &service{
		repo:       repo,
		levelRepo:  levelRepo,
		baseReward: baseReward,
		loginExp:   loginExp,
	}
}

func (s *service) ClaimDailyLogin(ctx context.Context, userID int) (*DailyLoginResult, error) {
	ul, err := s.levelRepo.GetOrCreateUserLevel(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user level: %w", err)
	}

	levelBonus := int64(ul.CurrentLevel) / 2 // floor(level * 0.5)
	total := s.baseReward + levelBonus

	// one transaction: a failed credit rolls the day guard back too
	if _, err := s.repo.Claim(ctx, userID, total, SourceDailyLogin, "Daily login reward"); err != nil {
		return nil, err
	}

	_, leveledUp, err := s.levelRepo.AddExperience(ctx, userID, s.loginExp)
	if err != nil {
		// the reward is already paid; losing the XP is logged, not fatal
		logger.WithError(err).Error("failed to add daily login experience")
	}
	if leveledUp {
		metrics.RecordLevelUp()
	}

	return &DailyLoginResult{
		Reward:     total,
		BaseReward: s.baseReward,
		LevelBonus: levelBonus,
		Experience: s.loginExp,
		LevelUp:    leveledUp,
	}, nil
}
