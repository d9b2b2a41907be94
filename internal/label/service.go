package label

import (
	"context"
	"fmt"

	"github.com/sahu-SuMiT/WeNews/internal/level"
	"github.com/sahu-SuMiT/WeNews/internal/user"
	"github.com/sahu-SuMiT/WeNews/internal/wallet"
)

// LabelStatus is a label with its unlock state for one user.
type LabelStatus struct {
	LabelSummary
	IsUnlocked bool                         `json:"is_unlocked"`
	IsClaimed  bool                         `json:"is_claimed"`
	Progress   map[string]ConditionProgress `json:"progress,omitempty"`
}

type ClaimResult struct {
	Achievement *level.Achievement `json:"achievement"`
	Reward      int64              `json:"reward"`
	LabelName   string             `json:"label_name"`
}

type Service interface {
	ActiveLabels(ctx context.Context, userID int) ([]LabelStatus, error)
	LabelDetails(ctx context.Context, userID, labelID int) (*LabelStatus, error)
	Claim(ctx context.Context, userID, labelID int) (*ClaimResult, error)
	Achievements(ctx context.Context, userID int) ([]level.Achievement, int64, error)
	Metrics(ctx context.Context, userID int) (UserMetrics, error)
}

type service struct {
	repo       Repository
	userRepo   user.Repository
	walletRepo wallet.Repository
	levelRepo  level.Repository
}

func NewService(repo Repository, userRepo user.Repository, walletRepo wallet.Repository, levelRepo level.Repository) Service {
	return &service{
		repo:       repo,
		userRepo:   userRepo,
		walletRepo: walletRepo,
		levelRepo:  levelRepo,
	}
}

// Metrics assembles the snapshot conditions are evaluated against.
func (s *service) Metrics(ctx context.Context, userID int) (UserMetrics, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return UserMetrics{}, fmt.Errorf("load user: %w", err)
	}

	w, err := s.walletRepo.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return UserMetrics{}, fmt.Errorf("load wallet: %w", err)
	}

	ul, err := s.levelRepo.GetOrCreateUserLevel(ctx, userID)
	if err != nil {
		return UserMetrics{}, fmt.Errorf("load user level: %w", err)
	}

	return UserMetrics{
		LoginStreak:    u.LoginStreak,
		TotalEarnings:  w.TotalEarnings,
		CurrentLevel:   ul.CurrentLevel,
		TotalReferrals: u.TotalReferrals,
		NewsReadCount:  u.NewsReadCount,
	}, nil
}

func (s *service) ActiveLabels(ctx context.Context, userID int) ([]LabelStatus, error) {
	active := true
	labels, err := s.repo.GetLabels(ctx, Filter{IsActive: &active})
	if err != nil {
		return nil, err
	}

	metrics, err := s.Metrics(ctx, userID)
	if err != nil {
		return nil, err
	}

	claimed, err := s.repo.GetClaimedLabelIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocked := []LabelStatus{}
	for i := range labels {
		l := &labels[i]
		if !l.IsUnlocked(metrics) {
			continue
		}
		unlocked = append(unlocked, LabelStatus{
			LabelSummary: l.Summary(),
			IsUnlocked:   true,
			IsClaimed:    claimed[l.ID],
		})
	}
	return unlocked, nil
}

func (s *service) LabelDetails(ctx context.Context, userID, labelID int) (*LabelStatus, error) {
	l, err := s.repo.GetLabelByID(ctx, labelID)
	if err != nil {
		return nil, err
	}

	metrics, err := s.Metrics(ctx, userID)
	if err != nil {
		return nil, err
	}

	claimed, err := s.repo.GetClaimedLabelIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &LabelStatus{
		LabelSummary: l.Summary(),
		IsUnlocked:   l.IsUnlocked(metrics),
		IsClaimed:    claimed[l.ID],
		Progress:     l.Progress(metrics),
	}, nil
}

func (s *service) Claim(ctx context.Context, userID, labelID int) (*ClaimResult, error) {
	l, err := s.repo.GetLabelByID(ctx, labelID)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		return nil, ErrLabelNotFound
	}

	metrics, err := s.Metrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !l.IsUnlocked(metrics) {
		return nil, ErrConditionsNotMet
	}

	achievement, err := s.repo.Claim(ctx, userID, l)
	if err != nil {
		return nil, err
	}

	return &ClaimResult{
		Achievement: achievement,
		Reward:      l.Reward,
		LabelName:   l.Name,
	}, nil
}

func (s *service) Achievements(ctx context.Context, userID int) ([]level.Achievement, int64, error) {
	achievements, err := s.levelRepo.GetAchievements(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	var totalRewards int64
	for _, a := range achievements {
		totalRewards += a.Reward
	}
	return achievements, totalRewards, nil
}
