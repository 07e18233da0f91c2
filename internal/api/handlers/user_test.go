package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rsharma/socialnet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserInfoEndpoint(t *testing.T) {
	t.Run("returns the caller's profile", func(t *testing.T) {
		e := newEnv(t)
		profile, token := e.signUp(t, "me_reader")

		code, env := e.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
		require.Equal(t, http.StatusOK, code)

		var data domain.Profile
		decodeData(t, env, &data)
		assert.Equal(t, profile.ID, data.ID)
		assert.Equal(t, "me_reader", data.Username)
	})

	t.Run("requires a session", func(t *testing.T) {
		e := newEnv(t)

		code, env := e.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "unauthenticated", env.ErrorCodeForClient)
	})
}

func TestGetUserBasicInfoEndpoint(t *testing.T) {
	e := newEnv(t)
	profile, token := e.signUp(t, "basic_reader")

	code, env := e.do(t, http.MethodGet, "/api/v1/users/me/basic", token, nil)
	require.Equal(t, http.StatusOK, code)

	var data map[string]interface{}
	decodeData(t, env, &data)
	assert.Equal(t, profile.ID.String(), data["userId"])
	assert.Equal(t, "basic_reader", data["username"])
	assert.NotContains(t, data, "email", "basic projection must not leak contact details")
}

func TestGetUserInfoByUsernameEndpoint(t *testing.T) {
	e := newEnv(t)
	target, _ := e.signUp(t, "LookMeUp")
	_, token := e.signUp(t, "curious_one")

	t.Run("finds regardless of casing", func(t *testing.T) {
		code, env := e.do(t, http.MethodGet, "/api/v1/users/username/lookmeup", token, nil)
		require.Equal(t, http.StatusOK, code)

		var data domain.Profile
		decodeData(t, env, &data)
		assert.Equal(t, target.ID, data.ID)
	})

	t.Run("unknown handle is a 404", func(t *testing.T) {
		code, env := e.do(t, http.MethodGet, "/api/v1/users/username/nobodyhere", token, nil)
		require.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "userNotFound", env.ErrorCodeForClient)
	})
}

func TestCheckUsernameStatusEndpoint(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ClaimedName")

	t.Run("free handle is available", func(t *testing.T) {
		code, env := e.do(t, http.MethodGet, "/api/v1/users/username-status/freshname", "", nil)
		require.Equal(t, http.StatusOK, code)

		var data map[string]bool
		decodeData(t, env, &data)
		assert.True(t, data["isUsernameAvailable"])
	})

	t.Run("claimed handle is unavailable in any casing", func(t *testing.T) {
		code, env := e.do(t, http.MethodGet, "/api/v1/users/username-status/claimedname", "", nil)
		require.Equal(t, http.StatusOK, code)

		var data map[string]bool
		decodeData(t, env, &data)
		assert.False(t, data["isUsernameAvailable"])
	})

	t.Run("malformed handle is a 400", func(t *testing.T) {
		code, _ := e.do(t, http.MethodGet, "/api/v1/users/username-status/ab", "", nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestUpdateProfileEndpoint(t *testing.T) {
	t.Run("updates and returns the fresh profile", func(t *testing.T) {
		e := newEnv(t)
		profile, token := e.signUp(t, "update_me")

		code, env := e.do(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{
			"name": "Renamed",
			"bio":  "hello there",
		})
		require.Equal(t, http.StatusOK, code)

		var data domain.Profile
		decodeData(t, env, &data)
		assert.Equal(t, "Renamed", data.Name)
		require.NotNil(t, data.Bio)
		assert.Equal(t, "hello there", *data.Bio)
		assert.Contains(t, e.cache.Invalidated, profile.ID)
	})

	t.Run("stale cached snapshot cannot survive an update", func(t *testing.T) {
		e := newEnv(t)
		profile, token := e.signUp(t, "cache_racer")

		// Warm the cache through the read path.
		code, _ := e.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
		require.Equal(t, http.StatusOK, code)
		require.Eventually(t, func() bool { return e.cache.Contains(profile.ID) },
			2*time.Second, 10*time.Millisecond)

		code, _ = e.do(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{"name": "Post Update"})
		require.Equal(t, http.StatusOK, code)

		code, env := e.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
		require.Equal(t, http.StatusOK, code)
		var data domain.Profile
		decodeData(t, env, &data)
		assert.Equal(t, "Post Update", data.Name)
	})

	t.Run("empty patch is a 400", func(t *testing.T) {
		e := newEnv(t)
		_, token := e.signUp(t, "no_patch")

		code, env := e.do(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{})
		require.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "inputParamsValidationFailed", env.ErrorCodeForClient)
	})

	t.Run("taken handle is a 400 with usernameAlreadyExists", func(t *testing.T) {
		e := newEnv(t)
		e.signUp(t, "holder")
		_, token := e.signUp(t, "wants_it")

		code, env := e.do(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{"username": "Holder"})
		require.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "usernameAlreadyExists", env.ErrorCodeForClient)
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	e := newEnv(t)
	profile, token := e.signUp(t, "leaving_user")

	code, env := e.do(t, http.MethodDelete, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, env.Error)

	// Every session is gone, so the old token no longer authenticates.
	code, _ = e.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	_, err := e.profiles.GetByID(context.Background(), profile.ID)
	assert.Error(t, err, "deleted profile must be invisible to reads")
}
