package handlers

import (
	"net/http"
	"strings"

	"gajanji-server/src/auth"
	"gajanji-server/src/logger"
	"gajanji-server/src/models"
	"gajanji-server/src/util"
)

func GetProfile(store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		user, err := store.GetUserByID(r.Context(), id.UserID)
		if err != nil {
			writeLoadError(w, r, err, "User")
			return
		}
		util.WriteJSON(w, http.StatusOK, user)
	}
}

// UpdateProfile changes only the user-editable fields; email, roles and
// credentials are ignored if sent.
func UpdateProfile(store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req models.ProfileUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			log.Info("Failed to decode update profile request body", logger.FieldError, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Name != nil && !util.ValidateName(*req.Name) {
			util.WriteError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.Currency != nil {
			c := strings.ToUpper(strings.TrimSpace(*req.Currency))
			if len(c) != 3 {
				util.WriteError(w, http.StatusBadRequest, "currency must be a 3-letter code")
				return
			}
			req.Currency = &c
		}

		user, err := store.GetUserByID(r.Context(), id.UserID)
		if err != nil {
			writeLoadError(w, r, err, "User")
			return
		}
		req.Apply(user)

		updated, err := store.UpdateUserProfile(r.Context(), user)
		if err != nil {
			writeLoadError(w, r, err, "User")
			return
		}

		log.Info("User profile updated")
		util.WriteJSON(w, http.StatusOK, updated)
	}
}

func ChangePassword(store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			log.Info("Failed to decode change password request body", logger.FieldError, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		user, err := store.GetUserByID(r.Context(), id.UserID)
		if err != nil {
			writeLoadError(w, r, err, "User")
			return
		}

		// Google-only accounts have no current password to check.
		if user.PasswordHash != nil {
			if err := auth.CheckPassword(*user.PasswordHash, req.CurrentPassword); err != nil {
				log.Info("Invalid current password attempt")
				util.WriteError(w, http.StatusUnauthorized, "current password is incorrect")
				return
			}
		}

		if !util.ValidatePassword(req.NewPassword) {
			util.WriteError(w, http.StatusBadRequest, "password must be at least 8 characters with uppercase, lowercase, digit, and special character")
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			log.Error("Failed to hash new password", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}
		if err := store.UpdateUserPassword(r.Context(), id.UserID, hash); err != nil {
			writeLoadError(w, r, err, "User")
			return
		}

		log.Info("User password changed")
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
	}
}
