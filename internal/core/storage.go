package core

import "context"

// HistoryRepository is the durable, append-only log of conversation turns.
// Both query methods return turns newest-first.
type HistoryRepository interface {
	Append(ctx context.Context, t Turn) error
	BySession(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	ByDay(ctx context.Context, day string, limit int) ([]Turn, error)
}

// UserRepository persists registered accounts.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	ByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, email, encodedHash string) error
}
