package user

import "time"

type User struct {
	ID             int       `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Role           string    `db:"role" json:"role"`
	ReferralCode   string    `db:"referral_code" json:"referral_code"`
	ReferredBy     *int      `db:"referred_by" json:"referred_by,omitempty"`
	LoginStreak    int       `db:"login_streak" json:"login_streak"`
	TotalReferrals int       `db:"total_referrals" json:"total_referrals"`
	NewsReadCount  int       `db:"news_read_count" json:"news_read_count"`
	LastLogin      time.Time `db:"last_login" json:"last_login"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type RegisterRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=30"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ReferralCode string `json:"referral_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
