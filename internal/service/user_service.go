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

// UserService owns the profile lifecycle: login, sign-up, logout, cached
// profile reads and profile mutations with their cache/event side effects.
type UserService struct {
	profiles  repository.ProfileRepository
	cache     repository.ProfileCache
	sessions  *SessionManager
	publisher repository.Publisher
}

func NewUserService(profiles repository.ProfileRepository, cache repository.ProfileCache, sessions *SessionManager, publisher repository.Publisher) *UserService {
	return &UserService{
		profiles:  profiles,
		cache:     cache,
		sessions:  sessions,
		publisher: publisher,
	}
}

type LoginInput struct {
	UserIdentifier  string
	Provider        string
	DeviceInfo      string
	OperatingSystem string
}

type LoginResult struct {
	IsNewUser bool   `json:"isNewUser"`
	Token     string `json:"token"`
}

// Login resolves the contact identifier to a profile and issues a session.
// An unknown identifier is not an error at this layer: the result reports
// IsNewUser so the caller can steer the client into sign-up.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	profile, err := s.profiles.GetByEmail(ctx, input.UserIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &LoginResult{IsNewUser: true, Token: ""}, nil
		}
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, IssueInput{
		ProfileID:       profile.ID,
		UserIdentifier:  profile.Email,
		Provider:        input.Provider,
		DeviceInfo:      input.DeviceInfo,
		OperatingSystem: input.OperatingSystem,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{IsNewUser: false, Token: token}, nil
}

type CreateUserInput struct {
	Email                 string
	Provider              string
	Name                  string
	Username              string
	ProfilePictureMediaID *string
	SignUpIPv4Address     *string
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.Profile, error) {
	if !domain.IsValidEmail(input.Email) {
		return nil, domain.NewValidationError("inputParamsValidationFailed", "invalid email address")
	}
	if !domain.IsValidProvider(input.Provider) {
		return nil, domain.NewValidationError("inputParamsValidationFailed", "unsupported sign-in provider")
	}
	if !domain.IsValidName(input.Name) {
		return nil, domain.NewValidationError("inputParamsValidationFailed", "name must be 1-35 characters")
	}
	if !domain.IsValidUsername(input.Username) {
		return nil, domain.NewValidationError("inputParamsValidationFailed", "username must be 4-15 characters of letters, digits or underscore")
	}

	// Handle uniqueness is case-insensitive; the unique index alone cannot
	// catch case variants, so check before inserting.
	if _, err := s.profiles.GetByUsername(ctx, input.Username); err == nil {
		return nil, &domain.DuplicateKeyError{Field: "username"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile := &domain.Profile{
		ID:                    uuid.New(),
		Email:                 input.Email,
		Provider:              input.Provider,
		Name:                  input.Name,
		Username:              input.Username,
		ProfilePictureMediaID: input.ProfilePictureMediaID,
		SignUpIPv4Address:     input.SignUpIPv4Address,
		ModerationStatus:      domain.ModerationStatusUnmoderated,
		DeletionStatus:        domain.DeletionStatusNotDeleted,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.publishBackground(ctx, domain.BackgroundMessage{
		MessageName: "userSignedUp",
		EntityID:    profile.ID.String(),
		EntityType:  "user",
	})
	s.publishUserEvent(ctx, profile.ID, "create")

	return profile, nil
}

// Logout revokes the presented token only; other devices stay logged in.
func (s *UserService) Logout(ctx context.Context, profileID uuid.UUID, token string) error {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidUser
		}
		return err
	}

	return s.sessions.RevokeOne(ctx, profile.ID, token)
}

// GetProfile is the cache-aside read path: cache first, then the store
// filtered to live profiles, repopulating the cache off the request path.
// A missing profile is never negatively cached.
func (s *UserService) GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	cached, err := s.cache.Read(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	go func(snapshot domain.Profile) {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.cache.Write(cacheCtx, &snapshot); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"userId":    snapshot.ID,
				"errorCode": "errorWhileInsertingIntoUserCache",
			}).Warn("failed to populate profile cache")
		}
	}(*profile)

	return profile, nil
}

// GetProfileByUsername bypasses the cache: the cache is keyed by id and the
// handle can change.
func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// CheckUsernameStatus reports handle availability, case-insensitively.
func (s *UserService) CheckUsernameStatus(ctx context.Context, username string) (bool, error) {
	if !domain.IsValidUsername(username) {
		return false, domain.NewValidationError("inputParamsValidationFailed", "username must be 4-15 characters of letters, digits or underscore")
	}
	_, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// UpdateProfile applies a partial update, then synchronously invalidates the
// cached snapshot so no later read can observe the pre-update state.
func (s *UserService) UpdateProfile(ctx context.Context, profileID uuid.UUID, patch domain.ProfilePatch) (*domain.Profile, error) {
	if patch.Empty() {
		return nil, domain.NewValidationError("inputParamsValidationFailed", "at least one field must be provided")
	}
	if patch.Name != nil && !domain.IsValidName(*patch.Name) {
		return nil, domain.NewValidationError("inputParamsValidationFailed", "name must be 1-35 characters")
	}
	if patch.Username != nil {
		if !domain.IsValidUsername(*patch.Username) {
			return nil, domain.NewValidationError("inputParamsValidationFailed", "username must be 4-15 characters of letters, digits or underscore")
		}
		existing, err := s.profiles.GetByUsername(ctx, *patch.Username)
		if err == nil && existing.ID != profileID {
			return nil, &domain.DuplicateKeyError{Field: "username"}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := s.profiles.Update(ctx, profileID, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	s.invalidateCache(ctx, profileID)
	s.publishUserEvent(ctx, profileID, "update")

	return s.GetProfile(ctx, profileID)
}

// DeleteUser flags the profile as deleted, revokes every session and drops
// the cached snapshot. The row itself is kept.
func (s *UserService) DeleteUser(ctx context.Context, profileID uuid.UUID) error {
	if err := s.profiles.MarkDeleted(ctx, profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	if err := s.sessions.RevokeAll(ctx, profileID); err != nil {
		return err
	}

	s.invalidateCache(ctx, profileID)
	s.publishUserEvent(ctx, profileID, "delete")

	return nil
}

func (s *UserService) invalidateCache(ctx context.Context, profileID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, profileID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"userId":    profileID,
			"errorCode": "errorWhileDeletingFromUserCache",
		}).Warn("failed to invalidate profile cache")
	}
}

func (s *UserService) publishBackground(ctx context.Context, msg domain.BackgroundMessage) {
	if err := s.publisher.PublishBackground(ctx, msg); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"messageName": msg.MessageName,
			"entityId":    msg.EntityID,
			"errorCode":   "bgsPublishFailed",
		}).Warn("failed to publish background message")
	}
}

func (s *UserService) publishUserEvent(ctx context.Context, profileID uuid.UUID, operation string) {
	event := domain.AnalyticsEvent{
		EventName:       "userInfoEvent",
		EntityID:        profileID.String(),
		EntityType:      "user",
		TypeOfOperation: operation,
	}
	if err := s.publisher.PublishAnalytics(ctx, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"entityId":  profileID,
			"operation": operation,
			"errorCode": "analyticsPublishFailed",
		}).Warn("failed to publish analytics event")
	}
}
