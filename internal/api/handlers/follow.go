package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/api/middleware"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/service"
)

type FollowHandler struct {
	graphService *service.GraphService
}

func NewFollowHandler(graphService *service.GraphService) *FollowHandler {
	return &FollowHandler{graphService: graphService}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}
	followeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	if err := h.graphService.Follow(r.Context(), followerID, followeeID); err != nil {
		writeServiceError(w, err, "followUser")
		return
	}
	writeSuccess(w, "User followed successfully", "done")
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}
	followeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	if err := h.graphService.Unfollow(r.Context(), followerID, followeeID); err != nil {
		writeServiceError(w, err, "unFollowUser")
		return
	}
	writeSuccess(w, "User unfollowed successfully", "done")
}

func (h *FollowHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	h.writeListPage(w, r, h.graphService.ListFollowers, "getFollowersListByUserId", "Followers fetched successfully")
}

func (h *FollowHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	h.writeListPage(w, r, h.graphService.ListFollowing, "getFollowingListByUserId", "Following fetched successfully")
}

type listFunc func(ctx context.Context, profileID uuid.UUID, cursor int64) ([]*domain.FollowListEntry, error)

func (h *FollowHandler) writeListPage(w http.ResponseWriter, r *http.Request, list listFunc, operation, message string) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	// cursor is an exclusive epoch-millis upper bound; absent means "now".
	var cursor int64
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeBadRequest(w, "invalid cursor")
			return
		}
	}

	entries, err := list(r.Context(), profileID, cursor)
	if err != nil {
		writeServiceError(w, err, operation)
		return
	}
	writeSuccess(w, message, entries)
}

func (h *FollowHandler) CheckFollowStatus(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}
	followeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	followed, err := h.graphService.CheckFollowStatus(r.Context(), followerID, followeeID)
	if err != nil {
		writeServiceError(w, err, "checkUserFollowStatus")
		return
	}
	writeSuccess(w, "Follow status fetched successfully", map[string]bool{"isFollowed": followed})
}

func (h *FollowHandler) GetRecommendedUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}
	sectionTag := chi.URLParam(r, "sectionTag")

	pageSize := 0
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "invalid pageSize")
			return
		}
		pageSize = parsed
	}

	result, err := h.graphService.Recommend(r.Context(), userID, sectionTag, pageSize)
	if err != nil {
		writeServiceError(w, err, "getRecommendedUsers")
		return
	}
	writeSuccess(w, "Recommended users fetched successfully", result)
}
