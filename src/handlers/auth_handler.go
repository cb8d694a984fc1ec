package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gajanji-server/src/auth"
	db "gajanji-server/src/db/sql"
	"gajanji-server/src/logger"
	"gajanji-server/src/mail"
	"gajanji-server/src/models"
	"gajanji-server/src/util"

	"github.com/go-chi/chi/v5"
)

// Register validates the sign-up and mails a verification link. No user row
// is written until the link is followed.
func Register(store UserStore, tokens *auth.Tokens, sender mail.Sender, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req models.RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			log.Info("Failed to decode register request body", logger.FieldError, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if !util.ValidateName(req.Name) {
			util.WriteError(w, http.StatusBadRequest, "name is required")
			return
		}
		if !util.ValidateEmail(req.Email) {
			util.WriteError(w, http.StatusBadRequest, "invalid email format")
			return
		}
		if !util.ValidatePassword(req.Password) {
			util.WriteError(w, http.StatusBadRequest, "password must be at least 8 characters with uppercase, lowercase, digit, and special character")
			return
		}

		_, err := store.GetUserByEmail(r.Context(), req.Email)
		switch {
		case err == nil:
			log.Info("Registration rejected, email already exists", "email", req.Email)
			util.WriteError(w, http.StatusConflict, "Email already exists")
			return
		case !errors.Is(err, db.ErrNotFound):
			log.Error("Failed to look up user during registration", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error during registration.")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error("Failed to hash password", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error during registration.")
			return
		}

		token, err := tokens.IssueVerification(models.PendingRegistration{Name: req.Name, Email: req.Email, PasswordHash: hash})
		if err != nil {
			log.Error("Failed to issue verification token", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error during registration.")
			return
		}

		msg, err := mail.VerificationEmail(req.Email, req.Name, publicBaseURL+"/api/auth/verify/"+token)
		if err == nil {
			err = sender.Send(r.Context(), msg)
		}
		if err != nil {
			log.Error("Failed to send verification email", "email", req.Email, logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error during registration.")
			return
		}

		log.Info("Verification email sent", "email", req.Email)
		util.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Verification email sent. Please check your inbox.",
		})
	}
}

// VerifyEmail materializes the user carried by a verification token.
func VerifyEmail(store UserStore, tokens *auth.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		pending, err := tokens.ParseVerification(chi.URLParam(r, "token"))
		if err != nil {
			log.Info("Verification failed", logger.FieldError, err)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid or expired verification link."))
			return
		}

		hash := pending.PasswordHash
		user, err := store.CreateUser(r.Context(), &models.User{
			Name:          pending.Name,
			Email:         pending.Email,
			PasswordHash:  &hash,
			IsVerified:    true,
			Provider:      models.ProviderLocal,
			Notifications: true,
			Mailing:       true,
		})
		if err != nil {
			if errors.Is(err, db.ErrConflict) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("User already verified or exists"))
				return
			}
			log.Error("Failed to create verified user", logger.FieldError, err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Server error during verification."))
			return
		}

		log.Info("Email verified, account created", logger.FieldUserID, user.ID)
		w.Write([]byte("Email verified and account created successfully!"))
	}
}

func Login(store UserStore, tokens *auth.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req models.LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			log.Info("Failed to decode login request body", logger.FieldError, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		user, err := store.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				log.Info("Login for unknown email", "email", req.Email)
				util.WriteError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Error("Failed to look up user during login", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}

		if !user.IsVerified {
			util.WriteError(w, http.StatusForbidden, "Email not verified")
			return
		}
		if user.PasswordHash == nil {
			log.Info("Password login for account without password", logger.FieldUserID, user.ID)
			util.WriteError(w, http.StatusUnauthorized, "Incorrect password")
			return
		}
		if err := auth.CheckPassword(*user.PasswordHash, req.Password); err != nil {
			if !errors.Is(err, auth.ErrPasswordMismatch) {
				log.Error("Failed to check password", logger.FieldError, err)
			}
			log.Info("Invalid password attempt", logger.FieldUserID, user.ID, logger.FieldClientIP, r.RemoteAddr)
			util.WriteError(w, http.StatusUnauthorized, "Incorrect password")
			return
		}

		writeSession(w, r, tokens, user, "login successful")
	}
}

func GoogleLogin(store UserStore, tokens *auth.Tokens, verifier auth.GoogleVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req models.GoogleLoginRequest
		if err := decodeJSON(w, r, &req); err != nil || req.Token == "" {
			util.WriteError(w, http.StatusBadRequest, "token is required")
			return
		}

		ident, err := verifier.Verify(r.Context(), req.Token)
		if err != nil {
			log.Info("Google token rejected", logger.FieldError, err)
			util.WriteError(w, http.StatusUnauthorized, "Invalid Google token")
			return
		}

		user, err := store.UpsertGoogleUser(r.Context(), ident.Email, ident.Name, ident.Picture)
		if err != nil {
			log.Error("Failed to upsert google user", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}

		writeSession(w, r, tokens, user, "Google login successful")
	}
}

func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Logout successful"))
	}
}

func writeSession(w http.ResponseWriter, r *http.Request, tokens *auth.Tokens, user *models.User, message string) {
	log := logger.FromContext(r.Context())

	token, err := tokens.IssueSession(user)
	if err != nil {
		log.Error("Failed to generate session token", logger.FieldUserID, user.ID, logger.FieldError, err)
		util.WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	log.Info("Successful login", logger.FieldUserID, user.ID, "provider", user.Provider)
	util.WriteJSON(w, http.StatusOK, models.LoginResponse{Message: message, AccessToken: token})
}
