package server

import (
	"errors"
	"net/http"
	"strings"

	"alujo/apperr"
	"alujo/core/auth"
	"alujo/logger"
	"alujo/model"
	"alujo/repository"
)

type registerRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	DisplayName string  `json:"displayName" validate:"required,min=2,max=50"`
	Country     *string `json:"country" validate:"omitempty,len=2"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type updateMeRequest struct {
	Country *string `json:"country" validate:"omitempty,len=2"`
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *APIHandler) issueTokens(userID string) (*tokenPair, error) {
	access, err := h.tokens.AccessToken(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	refresh, err := h.tokens.RefreshToken(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &tokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RegisterHandler creates a listener account and signs it in.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	user := &model.User{
		Email:        strings.ToLower(req.Email),
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Role:         model.RoleListener,
		Country:      req.Country,
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, apperr.Conflict("email already registered"))
			return
		}
		respondError(w, apperr.Internal(err))
		return
	}

	tokens, err := h.issueTokens(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Info("user registered", logger.String("userId", user.ID))
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":         user,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// LoginHandler exchanges credentials for a token pair.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondError(w, apperr.Unauthorized("invalid email or password"))
		return
	}

	tokens, err := h.issueTokens(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// RefreshHandler rotates a refresh token into a fresh token pair.
func (h *APIHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	claims, err := h.tokens.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		respondError(w, apperr.Unauthorized("invalid or expired refresh token"))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if user == nil {
		respondError(w, apperr.Unauthorized("account no longer exists"))
		return
	}

	tokens, err := h.issueTokens(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokens)
}

// MeHandler returns the authenticated account, artist profile included.
func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if user == nil {
		respondError(w, apperr.NotFound("user not found"))
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateMeHandler updates the authenticated account's mutable profile
// fields. Only the country is account-level today.
func (h *APIHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.users.UpdateCountry(r.Context(), userID, req.Country); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// RequestPasswordResetHandler mails a reset token. The response is the same
// whether or not the address is registered.
func (h *APIHandler) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if user != nil {
		token, err := h.tokens.ResetToken(user.ID)
		if err != nil {
			respondError(w, apperr.Internal(err))
			return
		}
		if err := h.mail.SendPasswordReset(user.Email, token); err != nil {
			logger.Error("failed to send password reset mail",
				logger.String("userId", user.ID), logger.ErrorField(err))
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "if the address is registered, a reset link has been sent",
	})
}

// ResetPasswordHandler sets a new password against a valid reset token.
func (h *APIHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	claims, err := h.tokens.ParseResetToken(req.Token)
	if err != nil {
		respondError(w, apperr.Unauthorized("invalid or expired reset token"))
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if err := h.users.UpdatePassword(r.Context(), claims.UserID, hash); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	logger.Info("password reset completed", logger.String("userId", claims.UserID))
	respondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
