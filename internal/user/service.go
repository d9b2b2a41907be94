package user

import (
	"context"
	"errors"
	"strings"

	"github.com/sahu-SuMiT/WeNews/internal/auth"
	"github.com/sahu-SuMiT/WeNews/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidReferral    = errors.New("invalid referral code")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	RecordNewsRead(ctx context.Context, userID int) (*User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// newReferralCode derives a short shareable code from a uuid.
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	taken, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, "", "", err
	}
	if taken {
		return nil, "", "", ErrUsernameExists
	}

	var referredBy *int
	if req.ReferralCode != "" {
		referrer, err := s.repo.FindByReferralCode(ctx, strings.ToUpper(req.ReferralCode))
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return nil, "", "", ErrInvalidReferral
			}
			return nil, "", "", err
		}
		referredBy = &referrer.ID
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, CreateParams{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         "member",
		ReferralCode: newReferralCode(),
		ReferredBy:   referredBy,
	})
	if err != nil {
		return nil, "", "", err
	}

	if referredBy != nil {
		if err := s.repo.IncrementReferrals(ctx, *referredBy); err != nil {
			// referral bookkeeping must not fail the signup
			logger.WithError(err).Error("failed to increment referrer counter")
		}
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	user, err = s.repo.UpdateLoginStreak(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}

func (s *service) RecordNewsRead(ctx context.Context, userID int) (*User, error) {
	return s.repo.IncrementNewsRead(ctx, userID)
}
