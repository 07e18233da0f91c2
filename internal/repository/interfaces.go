package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/domain"
)

// Counter column names accepted by ProfileRepository.AdjustCounter.
const (
	CounterFollowers = "followers_count"
	CounterFollowing = "following_count"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	// GetByUsername matches the handle case-insensitively.
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch) error
	// AdjustCounter applies an atomic in-database increment so concurrent
	// follows never lose updates. field must be one of the Counter constants.
	AdjustCounter(ctx context.Context, id uuid.UUID, field string, delta int) error
	MarkDeleted(ctx context.Context, id uuid.UUID) error
}

type RelationshipRepository interface {
	// Upsert creates the edge if absent and reports whether a new edge was
	// made. Merge-on-conflict, so concurrent duplicate follows are safe.
	Upsert(ctx context.Context, followerID, followeeID uuid.UUID, createdAt int64) (bool, error)
	// Delete removes the edge if present and reports whether one existed.
	Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	// ListFollowers returns edges pointing at profileID, newest first,
	// strictly older than before (epoch millis), capped at limit.
	ListFollowers(ctx context.Context, profileID uuid.UUID, before int64, limit int) ([]*domain.FollowListEntry, error)
	ListFollowing(ctx context.Context, profileID uuid.UUID, before int64, limit int) ([]*domain.FollowListEntry, error)
	// Counts returns the follower/following edge counts, used for
	// diagnostics when a graph node is missing.
	Counts(ctx context.Context, profileID uuid.UUID) (followers int64, following int64, err error)
	// Recommend returns profiles the requester does not already follow and
	// is not themselves, most-followed first.
	Recommend(ctx context.Context, profileID uuid.UUID, limit int) ([]*domain.Profile, error)
}

// SessionStore is the key-value store behind opaque session tokens.
// Get returns (nil, nil) for an unknown token.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, profileID uuid.UUID, token string) error
	DeleteAll(ctx context.Context, profileID uuid.UUID) error
	Tokens(ctx context.Context, profileID uuid.UUID) ([]string, error)
}

// ProfileCache is the read-through cache for profile snapshots.
// Read returns (nil, nil) on a miss; corrupt entries are purged and
// reported as a miss.
type ProfileCache interface {
	Read(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	Write(ctx context.Context, profile *domain.Profile) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// Publisher is the fire-and-forget fan-out for change events. Callers log
// failures and never propagate them.
type Publisher interface {
	PublishBackground(ctx context.Context, msg domain.BackgroundMessage) error
	PublishAnalytics(ctx context.Context, event domain.AnalyticsEvent) error
}

type Repositories struct {
	Profile      ProfileRepository
	Relationship RelationshipRepository
	Session      SessionStore
	Cache        ProfileCache
	Publisher    Publisher
}
