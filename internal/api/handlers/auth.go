package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rsharma/socialnet/internal/api/middleware"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/identity"
	"github.com/rsharma/socialnet/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
	verifier    *identity.Verifier
}

func NewAuthHandler(userService *service.UserService, verifier *identity.Verifier) *AuthHandler {
	return &AuthHandler{userService: userService, verifier: verifier}
}

type LoginRequest struct {
	UserIdentifier  string `json:"userIdentifier"`
	Provider        string `json:"provider"`
	DeviceInfo      string `json:"deviceInfo"`
	OperatingSystem string `json:"operatingSystem"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.UserIdentifier == "" || req.Provider == "" {
		writeBadRequest(w, "userIdentifier and provider are required")
		return
	}
	if !domain.IsValidProvider(req.Provider) {
		writeBadRequest(w, "unsupported sign-in provider")
		return
	}

	result, err := h.userService.Login(r.Context(), service.LoginInput{
		UserIdentifier:  req.UserIdentifier,
		Provider:        req.Provider,
		DeviceInfo:      req.DeviceInfo,
		OperatingSystem: req.OperatingSystem,
	})
	if err != nil {
		writeServiceError(w, err, "login")
		return
	}

	if result.IsNewUser {
		writeFailure(w, http.StatusNotFound, "User does not exists", "userNotFound", result)
		return
	}
	writeSuccess(w, "User successfully logged in", result)
}

type CreateUserRequest struct {
	Email                 string  `json:"email"`
	Provider              string  `json:"provider"`
	Name                  string  `json:"name"`
	Username              string  `json:"username"`
	ProfilePictureMediaID *string `json:"profilePictureMediaId"`
	SignUpIPv4Address     *string `json:"signUpIpv4Address"`
}

type CreateUserData struct {
	UserID string `json:"userId"`
}

// CreateUser signs a profile up. When identity verification is enabled the
// request must carry a provider identity token whose email matches the
// payload.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	if h.verifier.Enabled() {
		idToken := r.Header.Get("X-Identity-Token")
		verified, err := h.verifier.Verify(idToken)
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, "Identity verification failed", "identityVerificationFailed", nil)
			return
		}
		if verified.Email != req.Email {
			writeBadRequest(w, "email does not match verified identity")
			return
		}
	}

	profile, err := h.userService.CreateUser(r.Context(), service.CreateUserInput{
		Email:                 req.Email,
		Provider:              req.Provider,
		Name:                  req.Name,
		Username:              req.Username,
		ProfilePictureMediaID: req.ProfilePictureMediaID,
		SignUpIPv4Address:     req.SignUpIPv4Address,
	})
	if err != nil {
		writeServiceError(w, err, "createUser")
		return
	}

	writeSuccess(w, "User created successfully", CreateUserData{UserID: profile.ID.String()})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	token, tokenOK := middleware.GetToken(r.Context())
	if !ok || !tokenOK {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}

	if err := h.userService.Logout(r.Context(), userID, token); err != nil {
		writeServiceError(w, err, "logout")
		return
	}
	writeSuccess(w, "User has been logged out successfully", "done")
}
