package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/sahu-SuMiT/WeNews/internal/label"
	"github.com/sahu-SuMiT/WeNews/internal/level"
	"github.com/sahu-SuMiT/WeNews/internal/wallet"
)

// The dashboard is a pure read model: it owns no tables and pulls
// everything through narrow views of the other packages' stores.

type WalletStore interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*wallet.Wallet, error)
	GetTransactions(ctx context.Context, userID int, filter wallet.TransactionFilter) ([]wallet.Transaction, error)
	GetWithdrawals(ctx context.Context, userID int, filter wallet.WithdrawalFilter) ([]wallet.WithdrawalRequest, error)
}

type LevelStore interface {
	GetOrCreateUserLevel(ctx context.Context, userID int) (*level.UserLevel, error)
	GetAchievements(ctx context.Context, userID int) ([]level.Achievement, error)
}

type EarningStore interface {
	TodayTotal(ctx context.Context, userID int) (int64, error)
	RangeTotal(ctx context.Context, userID int, start, end time.Time) (int64, error)
}

type LabelView interface {
	ActiveLabels(ctx context.Context, userID int) ([]label.LabelStatus, error)
}

type NotificationStore interface {
	UnreadCount(ctx context.Context, userID int) (int64, error)
}

type Overview struct {
	Wallet         wallet.WalletSummary `json:"wallet"`
	Earnings       OverviewEarnings     `json:"earnings"`
	Notifications  OverviewAlerts       `json:"notifications"`
	Labels         OverviewLabels       `json:"labels"`
	RecentActivity OverviewActivity     `json:"recent_activity"`
}

type OverviewEarnings struct {
	Today           int64 `json:"today"`
	Level           int   `json:"level"`
	LevelProgress   int   `json:"level_progress"`
	Experience      int64 `json:"experience"`
	ExpForNextLevel int64 `json:"experience_for_next_level"`
}

type OverviewAlerts struct {
	PendingWithdrawals int   `json:"pending_withdrawals"`
	UnreadCount        int64 `json:"unread_count"`
}

type OverviewLabels struct {
	UnlockedCount int `json:"unlocked_count"`
	ClaimedCount  int `json:"claimed_count"`
}

type OverviewActivity struct {
	Transactions []wallet.Transaction `json:"transactions"`
}

type QuickStats struct {
	Balance       int64 `json:"balance"`
	TodayEarning  int64 `json:"today_earning"`
	WeekEarning   int64 `json:"week_earning"`
	MonthEarning  int64 `json:"month_earning"`
	Level         int   `json:"level"`
	LevelProgress int   `json:"level_progress"`
}

type EarningsSummary struct {
	Period        string `json:"period"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalEarnings int64  `json:"total_earnings"`
	AverageDaily  int64  `json:"average_daily"`
}

type Progress struct {
	Level        ProgressLevel        `json:"level"`
	Earnings     ProgressEarnings     `json:"earnings"`
	Achievements ProgressAchievements `json:"achievements"`
}

type ProgressLevel struct {
	Current         int   `json:"current"`
	Progress        int   `json:"progress"`
	Experience      int64 `json:"experience"`
	ExpForNextLevel int64 `json:"experience_for_next_level"`
	TotalExperience int64 `json:"total_experience"`
}

type ProgressEarnings struct {
	Total     int64 `json:"total"`
	ThisMonth int64 `json:"this_month"`
}

type ProgressAchievements struct {
	Total  int                 `json:"total"`
	Recent []level.Achievement `json:"recent"`
}

type Service interface {
	Overview(ctx context.Context, userID int) (*Overview, error)
	QuickStats(ctx context.Context, userID int) (*QuickStats, error)
	EarningsSummary(ctx context.Context, userID int, period string) (*EarningsSummary, error)
	Progress(ctx context.Context, userID int) (*Progress, error)
}

type service struct {
	wallets       WalletStore
	levels        LevelStore
	earnings      EarningStore
	labels        LabelView
	notifications NotificationStore
}

func NewService(wallets WalletStore, levels LevelStore, earnings EarningStore, labels LabelView, notifications NotificationStore) Service {
	return &service{
		wallets:       wallets,
		levels:        levels,
		earnings:      earnings,
		labels:        labels,
		notifications: notifications,
	}
}

func (s *service) Overview(ctx context.Context, userID int) (*Overview, error) {
	w, err := s.wallets.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	ul, err := s.levels.GetOrCreateUserLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	today, err := s.earnings.TodayTotal(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.wallets.GetWithdrawals(ctx, userID, wallet.WithdrawalFilter{Status: wallet.WithdrawalPending})
	if err != nil {
		return nil, err
	}

	unread, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.labels.ActiveLabels(ctx, userID)
	if err != nil {
		return nil, err
	}
	claimed := 0
	for _, st := range statuses {
		if st.IsClaimed {
			claimed++
		}
	}

	recent, err := s.wallets.GetTransactions(ctx, userID, wallet.TransactionFilter{Limit: 5})
	if err != nil {
		return nil, err
	}

	return &Overview{
		Wallet: w.Summary(),
		Earnings: OverviewEarnings{
			Today:           today,
			Level:           ul.CurrentLevel,
			LevelProgress:   ul.LevelProgress,
			Experience:      ul.CurrentExp,
			ExpForNextLevel: level.ExpForNextLevel(ul.CurrentExp),
		},
		Notifications: OverviewAlerts{
			PendingWithdrawals: len(pending),
			UnreadCount:        unread,
		},
		Labels: OverviewLabels{
			UnlockedCount: len(statuses),
			ClaimedCount:  claimed,
		},
		RecentActivity: OverviewActivity{
			Transactions: recent,
		},
	}, nil
}

func (s *service) QuickStats(ctx context.Context, userID int) (*QuickStats, error) {
	w, err := s.wallets.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	ul, err := s.levels.GetOrCreateUserLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today, err := s.earnings.TodayTotal(ctx, userID)
	if err != nil {
		return nil, err
	}
	week, err := s.earnings.RangeTotal(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}
	month, err := s.earnings.RangeTotal(ctx, userID, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}

	return &QuickStats{
		Balance:       w.Balance,
		TodayEarning:  today,
		WeekEarning:   week,
		MonthEarning:  month,
		Level:         ul.CurrentLevel,
		LevelProgress: ul.LevelProgress,
	}, nil
}

func (s *service) EarningsSummary(ctx context.Context, userID int, period string) (*EarningsSummary, error) {
	now := time.Now()

	var start, end time.Time
	switch period {
	case "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 0, 1)
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	default:
		period = "week"
		start = now.AddDate(0, 0, -7)
		end = now
	}

	total, err := s.earnings.RangeTotal(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	days := int64(math.Ceil(end.Sub(start).Hours() / 24))
	average := total
	if period != "today" && days > 0 {
		average = total / days
	}

	return &EarningsSummary{
		Period:        period,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		TotalEarnings: total,
		AverageDaily:  average,
	}, nil
}

func (s *service) Progress(ctx context.Context, userID int) (*Progress, error) {
	ul, err := s.levels.GetOrCreateUserLevel(ctx, userID)
	if err != nil {
		return nil, err
	}
	w, err := s.wallets.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	thisMonth, err := s.earnings.RangeTotal(ctx, userID, monthStart, now)
	if err != nil {
		return nil, err
	}

	achievements, err := s.levels.GetAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent := achievements
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	return &Progress{
		Level: ProgressLevel{
			Current:         ul.CurrentLevel,
			Progress:        ul.LevelProgress,
			Experience:      ul.CurrentExp,
			ExpForNextLevel: level.ExpForNextLevel(ul.CurrentExp),
			TotalExperience: ul.TotalExp,
		},
		Earnings: ProgressEarnings{
			Total:     w.TotalEarnings,
			ThisMonth: thisMonth,
		},
		Achievements: ProgressAchievements{
			Total:  len(achievements),
			Recent: recent,
		},
	}, nil
}
