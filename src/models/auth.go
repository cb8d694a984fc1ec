package models

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Token string `json:"token"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

// PendingRegistration is the unconfirmed sign-up carried inside the
// verification link; no row exists until the link is consumed.
type PendingRegistration struct {
	Name         string
	Email        string
	PasswordHash string
}
