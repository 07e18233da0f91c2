package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/repository"
	"gorm.io/gorm"
)

var (
	_ repository.ProfileRepository      = (*MemProfiles)(nil)
	_ repository.RelationshipRepository = (*MemRelationships)(nil)
	_ repository.SessionStore           = (*MemSessions)(nil)
	_ repository.ProfileCache           = (*MemCache)(nil)
	_ repository.Publisher              = (*MemPublisher)(nil)
)

// In-memory store implementations for service-level tests. They honor the
// same contracts as the real stores (gorm.ErrRecordNotFound for missing
// rows, nil-nil for cache/session misses) so services cannot tell the
// difference.

// MemProfiles implements repository.ProfileRepository.
type MemProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile

	// FailCounters makes AdjustCounter return an error, simulating a
	// profile-store failure after a committed edge write.
	FailCounters bool
}

func NewMemProfiles() *MemProfiles {
	return &MemProfiles{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (m *MemProfiles) Create(ctx context.Context, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if strings.EqualFold(existing.Username, profile.Username) {
			return &domain.DuplicateKeyError{Field: "username"}
		}
		if existing.Email == profile.Email {
			return &domain.DuplicateKeyError{Field: "email"}
		}
	}
	clone := *profile
	m.profiles[profile.ID] = &clone
	return nil
}

func (m *MemProfiles) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok || profile.DeletionStatus == domain.DeletionStatusDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *profile
	return &clone, nil
}

func (m *MemProfiles) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, profile := range m.profiles {
		if profile.Email == email && profile.DeletionStatus != domain.DeletionStatusDeleted {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MemProfiles) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, profile := range m.profiles {
		if strings.EqualFold(profile.Username, username) && profile.DeletionStatus != domain.DeletionStatusDeleted {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MemProfiles) Update(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok || profile.DeletionStatus == domain.DeletionStatusDeleted {
		return gorm.ErrRecordNotFound
	}
	if patch.Name != nil {
		profile.Name = *patch.Name
	}
	if patch.Username != nil {
		profile.Username = *patch.Username
	}
	if patch.Bio != nil {
		profile.Bio = patch.Bio
	}
	if patch.Location != nil {
		profile.Location = patch.Location
	}
	if patch.Website != nil {
		profile.Website = patch.Website
	}
	if patch.ProfilePictureMediaID != nil {
		profile.ProfilePictureMediaID = patch.ProfilePictureMediaID
	}
	profile.UpdatedAt = time.Now()
	return nil
}

func (m *MemProfiles) AdjustCounter(ctx context.Context, id uuid.UUID, field string, delta int) error {
	if m.FailCounters {
		return errors.New("simulated counter failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok {
		return nil
	}
	switch field {
	case "followers_count":
		profile.FollowersCount += delta
	case "following_count":
		profile.FollowingCount += delta
	default:
		return errors.New("unknown counter field: " + field)
	}
	return nil
}

func (m *MemProfiles) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.DeletionStatus = domain.DeletionStatusDeleted
	return nil
}

// MemRelationships implements repository.RelationshipRepository over an
// edge map, joining profiles from a MemProfiles for listings.
type MemRelationships struct {
	mu       sync.Mutex
	edges    map[[2]uuid.UUID]int64
	profiles *MemProfiles
}

func NewMemRelationships(profiles *MemProfiles) *MemRelationships {
	return &MemRelationships{
		edges:    make(map[[2]uuid.UUID]int64),
		profiles: profiles,
	}
}

func (m *MemRelationships) Upsert(ctx context.Context, followerID, followeeID uuid.UUID, createdAt int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uuid.UUID{followerID, followeeID}
	if _, ok := m.edges[key]; ok {
		return false, nil
	}
	m.edges[key] = createdAt
	return true, nil
}

func (m *MemRelationships) Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uuid.UUID{followerID, followeeID}
	if _, ok := m.edges[key]; !ok {
		return false, nil
	}
	delete(m.edges, key)
	return true, nil
}

func (m *MemRelationships) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[[2]uuid.UUID{followerID, followeeID}]
	return ok, nil
}

func (m *MemRelationships) ListFollowers(ctx context.Context, profileID uuid.UUID, before int64, limit int) ([]*domain.FollowListEntry, error) {
	return m.listPage(ctx, profileID, before, limit, true)
}

func (m *MemRelationships) ListFollowing(ctx context.Context, profileID uuid.UUID, before int64, limit int) ([]*domain.FollowListEntry, error) {
	return m.listPage(ctx, profileID, before, limit, false)
}

func (m *MemRelationships) listPage(ctx context.Context, profileID uuid.UUID, before int64, limit int, followers bool) ([]*domain.FollowListEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []*domain.FollowListEntry
	for key, createdAt := range m.edges {
		anchor, other := key[1], key[0]
		if !followers {
			anchor, other = key[0], key[1]
		}
		if anchor != profileID || createdAt >= before {
			continue
		}
		profile, err := m.profiles.GetByID(ctx, other)
		if err != nil {
			continue
		}
		entries = append(entries, &domain.FollowListEntry{
			UserID:                profile.ID,
			Username:              profile.Username,
			Name:                  profile.Name,
			ProfilePictureMediaID: profile.ProfilePictureMediaID,
			FollowedAt:            createdAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FollowedAt > entries[j].FollowedAt
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MemRelationships) Counts(ctx context.Context, profileID uuid.UUID) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var followers, following int64
	for key := range m.edges {
		if key[1] == profileID {
			followers++
		}
		if key[0] == profileID {
			following++
		}
	}
	return followers, following, nil
}

func (m *MemRelationships) Recommend(ctx context.Context, profileID uuid.UUID, limit int) ([]*domain.Profile, error) {
	m.mu.Lock()
	followed := make(map[uuid.UUID]bool)
	for key := range m.edges {
		if key[0] == profileID {
			followed[key[1]] = true
		}
	}
	m.mu.Unlock()

	m.profiles.mu.Lock()
	var candidates []*domain.Profile
	for id, profile := range m.profiles.profiles {
		if id == profileID || followed[id] || profile.DeletionStatus == domain.DeletionStatusDeleted {
			continue
		}
		clone := *profile
		candidates = append(candidates, &clone)
	}
	m.profiles.mu.Unlock()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].FollowersCount > candidates[j].FollowersCount
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// MemSessions implements repository.SessionStore.
type MemSessions struct {
	mu       sync.Mutex
	byToken  map[string]*domain.Session
	byUserID map[uuid.UUID][]string
}

func NewMemSessions() *MemSessions {
	return &MemSessions{
		byToken:  make(map[string]*domain.Session),
		byUserID: make(map[uuid.UUID][]string),
	}
}

func (m *MemSessions) Create(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *session
	m.byToken[session.Token] = &clone
	m.byUserID[session.UserID] = append(m.byUserID[session.UserID], session.Token)
	return nil
}

func (m *MemSessions) Get(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.byToken[token]
	if !ok {
		return nil, nil
	}
	clone := *session
	return &clone, nil
}

func (m *MemSessions) Delete(ctx context.Context, profileID uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byToken, token)
	tokens := m.byUserID[profileID]
	for i, t := range tokens {
		if t == token {
			m.byUserID[profileID] = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemSessions) DeleteAll(ctx context.Context, profileID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, token := range m.byUserID[profileID] {
		delete(m.byToken, token)
	}
	delete(m.byUserID, profileID)
	return nil
}

func (m *MemSessions) Tokens(ctx context.Context, profileID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.byUserID[profileID]...), nil
}

// MemCache implements repository.ProfileCache and records invalidations.
type MemCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*domain.Profile
	Invalidated []uuid.UUID

	// FailInvalidate simulates a cache outage on the invalidation path.
	FailInvalidate bool
}

func NewMemCache() *MemCache {
	return &MemCache{entries: make(map[uuid.UUID]*domain.Profile)}
}

func (m *MemCache) Read(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	clone := *profile
	return &clone, nil
}

func (m *MemCache) Write(ctx context.Context, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *profile
	m.entries[profile.ID] = &clone
	return nil
}

func (m *MemCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInvalidate {
		return errors.New("simulated cache outage")
	}
	delete(m.entries, id)
	m.Invalidated = append(m.Invalidated, id)
	return nil
}

// Contains reports whether an entry is cached, for assertions.
func (m *MemCache) Contains(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[id]
	return ok
}

// MemPublisher implements repository.Publisher and records every event.
type MemPublisher struct {
	mu         sync.Mutex
	Background []domain.BackgroundMessage
	Analytics  []domain.AnalyticsEvent

	// Fail makes every publish return an error; callers must treat that
	// as best-effort and still succeed.
	Fail bool
}

func NewMemPublisher() *MemPublisher {
	return &MemPublisher{}
}

func (m *MemPublisher) PublishBackground(ctx context.Context, msg domain.BackgroundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("simulated publish failure")
	}
	m.Background = append(m.Background, msg)
	return nil
}

func (m *MemPublisher) PublishAnalytics(ctx context.Context, event domain.AnalyticsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("simulated publish failure")
	}
	m.Analytics = append(m.Analytics, event)
	return nil
}

// AnalyticsFor returns the recorded analytics events for one entity.
func (m *MemPublisher) AnalyticsFor(id uuid.UUID) []domain.AnalyticsEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []domain.AnalyticsEvent
	for _, event := range m.Analytics {
		if event.EntityID == id.String() {
			events = append(events, event)
		}
	}
	return events
}
