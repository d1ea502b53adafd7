package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ContextEmailKey is the request-context key carrying the verified email
// claim from the auth middleware to protected handlers.
const ContextEmailKey = "token_email"

// Claim is the identity information extracted from a verified token.
type Claim struct {
	Email string
}

// ErrNoEmailClaim is returned when a verified token carries no email.
var ErrNoEmailClaim = errors.New("token has no email claim")

// TokenVerifier validates an opaque bearer token and yields the caller's
// identity claim. Implementations are swappable; handlers never see the
// concrete provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claim, error)
}

// FirebaseVerifier verifies Firebase ID tokens against the project named in
// a service-account credential file.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes the Firebase app from the credential file
// and returns a verifier backed by its auth client.
func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("auth: failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to create firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

// Verify checks the ID token with Firebase and extracts the email claim.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Claim, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Claim{}, fmt.Errorf("auth: token verification failed: %w", err)
	}

	email, ok := decoded.Claims["email"].(string)
	if !ok || email == "" {
		return Claim{}, fmt.Errorf("auth: %w", ErrNoEmailClaim)
	}

	return Claim{Email: email}, nil
}
