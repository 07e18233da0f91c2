package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rsharma/socialnet/internal/api"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/identity"
	"github.com/rsharma/socialnet/internal/realtime"
	"github.com/rsharma/socialnet/internal/repository"
	"github.com/rsharma/socialnet/internal/service"
	"github.com/rsharma/socialnet/internal/testutil"
	"github.com/stretchr/testify/require"
)

const identitySecret = "test-identity-secret"

// env wires the full router over in-memory stores so handler tests exercise
// routing, auth middleware and envelope encoding end to end.
type env struct {
	profiles  *testutil.MemProfiles
	sessions  *testutil.MemSessions
	cache     *testutil.MemCache
	publisher *testutil.MemPublisher
	services  *service.Services
	router    http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()

	profiles := testutil.NewMemProfiles()
	sessions := testutil.NewMemSessions()
	cache := testutil.NewMemCache()
	publisher := testutil.NewMemPublisher()

	repos := &repository.Repositories{
		Profile:      profiles,
		Relationship: testutil.NewMemRelationships(profiles),
		Session:      sessions,
		Cache:        cache,
		Publisher:    publisher,
	}
	services := service.NewServices(repos, testutil.TestConfig())

	hub := realtime.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	return &env{
		profiles:  profiles,
		sessions:  sessions,
		cache:     cache,
		publisher: publisher,
		services:  services,
		router:    api.NewRouter(services, hub, identity.NewVerifier(identitySecret)),
	}
}

// signUp persists a profile directly and issues a session for it.
func (e *env) signUp(t *testing.T, username string) (*domain.Profile, string) {
	t.Helper()

	profile := testutil.NewProfileBuilder().WithUsername(username).Profile()
	require.NoError(t, e.profiles.Create(context.Background(), profile))

	token, err := e.services.Session.Issue(context.Background(), service.IssueInput{
		ProfileID:      profile.ID,
		UserIdentifier: profile.Email,
		Provider:       profile.Provider,
	})
	require.NoError(t, err)
	return profile, token
}

type envelope struct {
	Error              bool            `json:"error"`
	Message            string          `json:"message"`
	ErrorCodeForClient string          `json:"errorCodeForClient"`
	StatusCode         int             `json:"statusCode"`
	Data               json.RawMessage `json:"data"`
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return e.doWithHeaders(t, method, path, body, headers)
}

func (e *env) doWithHeaders(t *testing.T, method, path string, body interface{}, headers map[string]string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, env
}

func identityToken(t *testing.T, email string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":    email,
		"provider": "google.com",
		"name":     "Verified Name",
	})
	signed, err := token.SignedString([]byte(identitySecret))
	require.NoError(t, err)
	return signed
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
