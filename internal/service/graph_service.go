package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultFollowPageSize caps follower/following/recommendation pages.
const DefaultFollowPageSize = 10

// GraphService coordinates the multi-store write sequence for follow and
// unfollow: graph edge first, then profile counters, then cache
// invalidation and event publication. The edge write is the source of
// truth; everything after it is either logged-and-accepted (counters) or
// best-effort (cache, events).
type GraphService struct {
	profiles      repository.ProfileRepository
	relationships repository.RelationshipRepository
	cache         repository.ProfileCache
	publisher     repository.Publisher
	pageSize      int
}

func NewGraphService(profiles repository.ProfileRepository, relationships repository.RelationshipRepository, cache repository.ProfileCache, publisher repository.Publisher, pageSize int) *GraphService {
	if pageSize <= 0 {
		pageSize = DefaultFollowPageSize
	}
	return &GraphService{
		profiles:      profiles,
		relationships: relationships,
		cache:         cache,
		publisher:     publisher,
		pageSize:      pageSize,
	}
}

// Follow creates the directed edge follower -> followee. Re-following is an
// idempotent no-op success; counters move only when a new edge is made.
func (s *GraphService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return domain.NewValidationError("inputParamsValidationFailed", "cannot follow yourself")
	}

	if err := s.verifyNode(ctx, followerID, followeeID, "follow"); err != nil {
		return err
	}

	created, err := s.relationships.Upsert(ctx, followerID, followeeID, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	if !created {
		// Already following.
		return nil
	}

	// The edge is durable from here on. A counter failure leaves the
	// accepted inconsistency window; there is no compensating delete.
	s.adjustCounters(ctx, "follow", followerID, followeeID, +1)
	s.settleSideEffects(ctx, followerID, followeeID)
	return nil
}

// Unfollow removes the edge if present. Unfollowing a never-followed pair
// is an idempotent no-op success with no counter movement.
func (s *GraphService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return domain.NewValidationError("inputParamsValidationFailed", "cannot unfollow yourself")
	}

	deleted, err := s.relationships.Delete(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	s.adjustCounters(ctx, "unfollow", followerID, followeeID, -1)
	s.settleSideEffects(ctx, followerID, followeeID)
	return nil
}

// verifyNode confirms both endpoints exist as live profiles before an edge
// is written. The relationship counts go into the log line to help diagnose
// dangling references.
func (s *GraphService) verifyNode(ctx context.Context, followerID, followeeID uuid.UUID, operation string) error {
	for _, id := range []uuid.UUID{followerID, followeeID} {
		if _, err := s.profiles.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				followers, following, countErr := s.relationships.Counts(ctx, id)
				logrus.WithFields(logrus.Fields{
					"operation":      operation,
					"followerId":     followerID,
					"followeeId":     followeeID,
					"missingId":      id,
					"followersCount": followers,
					"followingCount": following,
					"countErr":       countErr,
					"errorCode":      "userNotFound",
				}).Error("graph node missing for follow operation")
				return domain.ErrNotFound
			}
			return err
		}
	}
	return nil
}

// adjustCounters moves both derived counters after an edge mutation.
// Failures are logged with full context and otherwise swallowed: the edge
// already committed and counters converge on the next successful mutation.
func (s *GraphService) adjustCounters(ctx context.Context, operation string, followerID, followeeID uuid.UUID, delta int) {
	if err := s.profiles.AdjustCounter(ctx, followeeID, repository.CounterFollowers, delta); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"operation":  operation,
			"followerId": followerID,
			"followeeId": followeeID,
			"counter":    repository.CounterFollowers,
			"errorCode":  "counterAdjustFailed",
		}).Error("counter update failed after edge mutation")
	}
	if err := s.profiles.AdjustCounter(ctx, followerID, repository.CounterFollowing, delta); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"operation":  operation,
			"followerId": followerID,
			"followeeId": followeeID,
			"counter":    repository.CounterFollowing,
			"errorCode":  "counterAdjustFailed",
		}).Error("counter update failed after edge mutation")
	}
}

// settleSideEffects invalidates both cached snapshots and publishes an
// update event per affected profile. All best-effort.
func (s *GraphService) settleSideEffects(ctx context.Context, followerID, followeeID uuid.UUID) {
	for _, id := range []uuid.UUID{followerID, followeeID} {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"userId":    id,
				"errorCode": "errorWhileDeletingFromUserCache",
			}).Warn("failed to invalidate profile cache")
		}
		event := domain.AnalyticsEvent{
			EventName:       "userInfoEvent",
			EntityID:        id.String(),
			EntityType:      "user",
			TypeOfOperation: "update",
		}
		if err := s.publisher.PublishAnalytics(ctx, event); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"entityId":  id,
				"errorCode": "analyticsPublishFailed",
			}).Warn("failed to publish analytics event")
		}
	}
}

// ListFollowers pages over the profiles following profileID, newest edge
// first. A zero cursor means "now" and yields the first page.
func (s *GraphService) ListFollowers(ctx context.Context, profileID uuid.UUID, cursor int64) ([]*domain.FollowListEntry, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.relationships.ListFollowers(ctx, profileID, normalizeCursor(cursor), s.pageSize)
}

// ListFollowing pages over the profiles that profileID follows.
func (s *GraphService) ListFollowing(ctx context.Context, profileID uuid.UUID, cursor int64) ([]*domain.FollowListEntry, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.relationships.ListFollowing(ctx, profileID, normalizeCursor(cursor), s.pageSize)
}

// CheckFollowStatus reports whether the directed edge exists.
func (s *GraphService) CheckFollowStatus(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	return s.relationships.Exists(ctx, followerID, followeeID)
}

// RecommendationResult is one recommendation section with its users.
type RecommendationResult struct {
	SectionID    string            `json:"sectionId"`
	SectionTitle string            `json:"sectionTitle"`
	Users        []*domain.Profile `json:"users"`
}

// Recommend returns profiles the requester does not already follow for a
// recognized section tag.
func (s *GraphService) Recommend(ctx context.Context, profileID uuid.UUID, sectionTag string, pageSize int) (*RecommendationResult, error) {
	section, ok := sectionFor(sectionTag)
	if !ok {
		return nil, domain.ErrSectionNotFound
	}
	if pageSize <= 0 || pageSize > maxRecommendationPageSize {
		pageSize = s.pageSize
	}

	users, err := s.relationships.Recommend(ctx, profileID, pageSize)
	if err != nil {
		return nil, err
	}
	return &RecommendationResult{
		SectionID:    section.ID,
		SectionTitle: section.Title,
		Users:        users,
	}, nil
}

func (s *GraphService) ensureProfile(ctx context.Context, profileID uuid.UUID) error {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func normalizeCursor(cursor int64) int64 {
	if cursor <= 0 {
		return time.Now().UnixMilli()
	}
	return cursor
}
