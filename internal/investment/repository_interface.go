package investment

import "context"

type Repository interface {
	GetPlans(ctx context.Context, activeOnly bool) ([]Plan, error)
	GetPlanByID(ctx context.Context, id int) (*Plan, error)

	// Purchase debits the joining amount and opens the investment in one
	// database transaction. A second active investment fails with
	// ErrDuplicateActiveInvestment and leaves the wallet untouched.
	Purchase(ctx context.Context, userID, planID int) (*UserInvestment, error)

	GetActiveByUser(ctx context.Context, userID int) (*UserInvestment, error)

	// ClaimDaily credits the plan's daily return once per calendar day.
	ClaimDaily(ctx context.Context, userID int) (*PayoutResult, error)

	UpdateLevel(ctx context.Context, investmentID, newLevel int) error
	AddReferral(ctx context.Context, userID int) error

	// ExpireDue marks investments past their expiry date and returns the
	// ones it closed so callers can notify the holders.
	ExpireDue(ctx context.Context) ([]ExpiredInvestment, error)

	// CountActiveByPlan feeds the active-investments gauge.
	CountActiveByPlan(ctx context.Context) (map[string]int, error)
}
