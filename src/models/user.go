package models

import "time"

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"

	RoleAdmin = "admin"
)

type User struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  *string   `json:"-"`
	IsVerified    bool      `json:"isVerified"`
	Picture       string    `json:"picture,omitempty"`
	Provider      string    `json:"provider"`
	Roles         []string  `json:"roles"`
	Phone         string    `json:"phone,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	Job           string    `json:"job,omitempty"`
	Currency      string    `json:"currency"`
	Notifications bool      `json:"notifications"`
	Mailing       bool      `json:"mailing"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ProfileUpdate holds the user-editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name          *string `json:"name"`
	Picture       *string `json:"picture"`
	Phone         *string `json:"phone"`
	Gender        *string `json:"gender"`
	Job           *string `json:"job"`
	Currency      *string `json:"currency"`
	Notifications *bool   `json:"notifications"`
	Mailing       *bool   `json:"mailing"`
}

// Apply copies the non-nil fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Picture != nil {
		u.Picture = *p.Picture
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Job != nil {
		u.Job = *p.Job
	}
	if p.Currency != nil {
		u.Currency = *p.Currency
	}
	if p.Notifications != nil {
		u.Notifications = *p.Notifications
	}
	if p.Mailing != nil {
		u.Mailing = *p.Mailing
	}
}
