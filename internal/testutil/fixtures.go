package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/domain"
	"gorm.io/gorm"
)

// ProfileBuilder creates test profiles with a builder pattern
type ProfileBuilder struct {
	username       string
	email          string
	name           string
	provider       string
	followersCount int
	followingCount int
	deletionStatus string
}

// NewProfileBuilder creates a new ProfileBuilder with default values
func NewProfileBuilder() *ProfileBuilder {
	suffix := uuid.New().String()[:8]
	return &ProfileBuilder{
		username:       fmt.Sprintf("user_%s", suffix),
		email:          fmt.Sprintf("user_%s@example.com", suffix),
		name:           "Test User",
		provider:       "google.com",
		deletionStatus: domain.DeletionStatusNotDeleted,
	}
}

// WithUsername sets the handle
func (b *ProfileBuilder) WithUsername(username string) *ProfileBuilder {
	b.username = username
	return b
}

// WithEmail sets the contact identifier
func (b *ProfileBuilder) WithEmail(email string) *ProfileBuilder {
	b.email = email
	return b
}

// WithName sets the display name
func (b *ProfileBuilder) WithName(name string) *ProfileBuilder {
	b.name = name
	return b
}

// WithCounts sets the follower/following counters
func (b *ProfileBuilder) WithCounts(followers, following int) *ProfileBuilder {
	b.followersCount = followers
	b.followingCount = following
	return b
}

// Deleted flags the profile as soft-deleted
func (b *ProfileBuilder) Deleted() *ProfileBuilder {
	b.deletionStatus = domain.DeletionStatusDeleted
	return b
}

// Profile materializes the profile without persisting it.
func (b *ProfileBuilder) Profile() *domain.Profile {
	return &domain.Profile{
		ID:               uuid.New(),
		Username:         b.username,
		Email:            b.email,
		Name:             b.name,
		Provider:         b.provider,
		FollowersCount:   b.followersCount,
		FollowingCount:   b.followingCount,
		ModerationStatus: domain.ModerationStatusUnmoderated,
		DeletionStatus:   b.deletionStatus,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// Build creates the profile in the database
func (b *ProfileBuilder) Build(t *testing.T, db *gorm.DB) *domain.Profile {
	t.Helper()

	profile := b.Profile()
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}
