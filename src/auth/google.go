package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

type GoogleIdentity struct {
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier checks a Google ID token and returns the identity it asserts.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*GoogleIdentity, error)
}

type IDTokenVerifier struct {
	audience string
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{audience: clientID}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromClaims(payload.Claims)
}

func identityFromClaims(claims map[string]interface{}) (*GoogleIdentity, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidToken)
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email not verified by Google", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)
	if name == "" {
		name = email
	}
	picture, _ := claims["picture"].(string)
	return &GoogleIdentity{Email: email, Name: name, Picture: picture}, nil
}
