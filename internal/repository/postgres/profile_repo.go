package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/repository"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *profileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &domain.DuplicateKeyError{Field: fieldForConstraint(pgErr.ConstraintName)}
		}
		return err
	}
	return nil
}

// fieldForConstraint maps a unique-index name to the offending field so the
// caller can report which key collided.
func fieldForConstraint(constraint string) string {
	switch {
	case strings.Contains(constraint, "username"):
		return "username"
	case strings.Contains(constraint, "email"):
		return "email"
	default:
		return "user"
	}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).
		First(&profile, "id = ? AND deletion_status <> ?", id, domain.DeletionStatusDeleted).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).
		First(&profile, "email = ? AND deletion_status <> ?", email, domain.DeletionStatusDeleted).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).
		First(&profile, "LOWER(username) = LOWER(?) AND deletion_status <> ?", username, domain.DeletionStatusDeleted).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch) error {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Username != nil {
		updates["username"] = *patch.Username
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.Website != nil {
		updates["website"] = *patch.Website
	}
	if patch.ProfilePictureMediaID != nil {
		updates["profile_picture_media_id"] = *patch.ProfilePictureMediaID
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ? AND deletion_status <> ?", id, domain.DeletionStatusDeleted).
		Updates(updates)
	if res.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(res.Error, &pgErr) && pgErr.Code == "23505" {
			return &domain.DuplicateKeyError{Field: fieldForConstraint(pgErr.ConstraintName)}
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *profileRepository) AdjustCounter(ctx context.Context, id uuid.UUID, field string, delta int) error {
	if field != repository.CounterFollowers && field != repository.CounterFollowing {
		return errors.New("unknown counter field: " + field)
	}
	return r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		UpdateColumn(field, gorm.Expr(field+" + ?", delta)).Error
}

func (r *profileRepository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		Update("deletion_status", domain.DeletionStatusDeleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
