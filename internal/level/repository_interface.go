package level

import "context"

type Repository interface {
	GetOrCreateUserLevel(ctx context.Context, userID int) (*UserLevel, error)

	// AddExperience applies an experience delta atomically and returns the
	// updated row plus whether the level increased. The stored level never
	// decreases.
	AddExperience(ctx context.Context, userID int, amount int64) (*UserLevel, bool, error)

	GetAchievements(ctx context.Context, userID int) ([]Achievement, error)
}
