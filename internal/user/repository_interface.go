package user

import "context"

// CreateParams carries everything the INSERT needs; the referral code is
// generated by the service so it can be derived deterministically from a
// uuid before the row exists.
type CreateParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	ReferralCode string
	ReferredBy   *int
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	FindByReferralCode(ctx context.Context, code string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// UpdateLoginStreak bumps the streak on the first login of a new day:
	// consecutive calendar days extend it, a gap resets it to 1, repeat
	// logins on the same day leave it unchanged.
	UpdateLoginStreak(ctx context.Context, userID int) (*User, error)

	IncrementReferrals(ctx context.Context, userID int) error
	IncrementNewsRead(ctx context.Context, userID int) (*User, error)
}
