package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rsharma/socialnet/internal/api/middleware"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUserInfo returns the caller's full profile via the cache-aside read
// path.
func (h *UserHandler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "getUserInfo")
		return
	}
	writeSuccess(w, "User info fetched successfully", profile)
}

// GetUserBasicInfo returns the trimmed projection of the caller's profile.
func (h *UserHandler) GetUserBasicInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "getUserBasicInfo")
		return
	}
	writeSuccess(w, "User basic info fetched successfully", profile.Basic())
}

func (h *UserHandler) GetUserInfoByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		writeBadRequest(w, "username is required")
		return
	}

	profile, err := h.userService.GetProfileByUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, err, "getUserInfoByUsername")
		return
	}
	writeSuccess(w, "User info fetched successfully", profile)
}

func (h *UserHandler) CheckUsernameStatus(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	available, err := h.userService.CheckUsernameStatus(r.Context(), username)
	if err != nil {
		writeServiceError(w, err, "checkUsernameStatus")
		return
	}
	writeSuccess(w, "Username status fetched successfully", map[string]bool{"isUsernameAvailable": available})
}

type UpdateProfileRequest struct {
	Name                  *string `json:"name"`
	Username              *string `json:"username"`
	Bio                   *string `json:"bio"`
	Location              *string `json:"location"`
	Website               *string `json:"website"`
	ProfilePictureMediaID *string `json:"profilePictureMediaId"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), userID, domain.ProfilePatch{
		Name:                  req.Name,
		Username:              req.Username,
		Bio:                   req.Bio,
		Location:              req.Location,
		Website:               req.Website,
		ProfilePictureMediaID: req.ProfilePictureMediaID,
	})
	if err != nil {
		writeServiceError(w, err, "updateUser")
		return
	}
	writeSuccess(w, "User updated successfully", profile)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		writeServiceError(w, err, "deleteUser")
		return
	}
	writeSuccess(w, "User deleted successfully", "done")
}
