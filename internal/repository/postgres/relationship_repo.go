package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type relationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) *relationshipRepository {
	return &relationshipRepository{db: db}
}

func (r *relationshipRepository) Upsert(ctx context.Context, followerID, followeeID uuid.UUID, createdAt int64) (bool, error) {
	edge := &domain.FollowEdge{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  createdAt,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followee_id"}},
			DoNothing: true,
		}).
		Create(edge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *relationshipRepository) Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&domain.FollowEdge{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *relationshipRepository) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.FollowEdge{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationshipRepository) ListFollowers(ctx context.Context, profileID uuid.UUID, before int64, limit int) ([]*domain.FollowListEntry, error) {
	return r.listPage(ctx, "followee_id", "follower_id", profileID, before, limit)
}

func (r *relationshipRepository) ListFollowing(ctx context.Context, profileID uuid.UUID, before int64, limit int) ([]*domain.FollowListEntry, error) {
	return r.listPage(ctx, "follower_id", "followee_id", profileID, before, limit)
}

// listPage pages over edges anchored on anchorCol, joining the profile on
// the opposite end of the edge. The cursor is exclusive: only edges strictly
// older than before are returned, newest first.
func (r *relationshipRepository) listPage(ctx context.Context, anchorCol, joinCol string, profileID uuid.UUID, before int64, limit int) ([]*domain.FollowListEntry, error) {
	var entries []*domain.FollowListEntry
	err := r.db.WithContext(ctx).
		Table("follow_edges").
		Select("profiles.id AS user_id, profiles.username, profiles.name, profiles.profile_picture_media_id, follow_edges.created_at AS followed_at").
		Joins("JOIN profiles ON profiles.id = follow_edges."+joinCol).
		Where("follow_edges."+anchorCol+" = ?", profileID).
		Where("follow_edges.created_at < ?", before).
		Where("profiles.deletion_status <> ?", domain.DeletionStatusDeleted).
		Order("follow_edges.created_at DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *relationshipRepository) Counts(ctx context.Context, profileID uuid.UUID) (int64, int64, error) {
	var followers, following int64
	err := r.db.WithContext(ctx).
		Model(&domain.FollowEdge{}).
		Where("followee_id = ?", profileID).
		Count(&followers).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).
		Model(&domain.FollowEdge{}).
		Where("follower_id = ?", profileID).
		Count(&following).Error
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (r *relationshipRepository) Recommend(ctx context.Context, profileID uuid.UUID, limit int) ([]*domain.Profile, error) {
	followed := r.db.
		Model(&domain.FollowEdge{}).
		Select("followee_id").
		Where("follower_id = ?", profileID)

	var profiles []*domain.Profile
	err := r.db.WithContext(ctx).
		Where("id <> ?", profileID).
		Where("deletion_status <> ?", domain.DeletionStatusDeleted).
		Where("id NOT IN (?)", followed).
		Order("followers_count DESC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
