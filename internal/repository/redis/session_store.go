package redis

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rsharma/socialnet/internal/domain"
)

// sessionStore keeps one hash per token plus a per-profile token list so
// that bulk revocation is O(active sessions) instead of a keyspace scan.
// Both writes of every operation run in a single MULTI/EXEC batch; a crash
// can never leave an orphaned session hash or list entry.
type sessionStore struct {
	client      *goredis.Client
	tokenPrefix string
	listPrefix  string
}

func NewSessionStore(client *goredis.Client, tokenPrefix, listPrefix string) *sessionStore {
	return &sessionStore{
		client:      client,
		tokenPrefix: tokenPrefix,
		listPrefix:  listPrefix,
	}
}

func (s *sessionStore) tokenKey(token string) string {
	return s.tokenPrefix + ":" + token
}

func (s *sessionStore) listKey(profileID uuid.UUID) string {
	return s.listPrefix + ":" + profileID.String()
}

func (s *sessionStore) Create(ctx context.Context, session *domain.Session) error {
	fields := map[string]interface{}{
		"userId":          session.UserID.String(),
		"token":           session.Token,
		"provider":        session.Provider,
		"userIdentifier":  session.UserIdentifier,
		"userAccessLevel": session.AccessLevel,
		"device":          session.Device,
		"operatingSystem": session.OperatingSystem,
		"createdAt":       session.CreatedAt,
		"lastModifiedAt":  session.LastModifiedAt,
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.tokenKey(session.Token), fields)
	pipe.LPush(ctx, s.listKey(session.UserID), session.Token)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *sessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.tokenKey(token)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	userID, err := uuid.Parse(fields["userId"])
	if err != nil {
		return nil, err
	}
	createdAt, _ := strconv.ParseInt(fields["createdAt"], 10, 64)
	lastModifiedAt, _ := strconv.ParseInt(fields["lastModifiedAt"], 10, 64)

	return &domain.Session{
		Token:           fields["token"],
		UserID:          userID,
		UserIdentifier:  fields["userIdentifier"],
		Provider:        fields["provider"],
		AccessLevel:     fields["userAccessLevel"],
		Device:          fields["device"],
		OperatingSystem: fields["operatingSystem"],
		CreatedAt:       createdAt,
		LastModifiedAt:  lastModifiedAt,
	}, nil
}

func (s *sessionStore) Delete(ctx context.Context, profileID uuid.UUID, token string) error {
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, s.listKey(profileID), 0, token)
	pipe.Del(ctx, s.tokenKey(token))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *sessionStore) DeleteAll(ctx context.Context, profileID uuid.UUID) error {
	listKey := s.listKey(profileID)
	tokens, err := s.client.LRange(ctx, listKey, 0, -1).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, s.tokenKey(token))
	}
	keys = append(keys, listKey)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, keys...)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *sessionStore) Tokens(ctx context.Context, profileID uuid.UUID) ([]string, error) {
	return s.client.LRange(ctx, s.listKey(profileID), 0, -1).Result()
}
