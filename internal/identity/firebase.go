package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
)

const (
	adminClaim           = "admin"
	emailClaim           = "email"
	defaultVerifyTimeout = 5 * time.Second
)

// FirebaseVerifier validates Firebase ID tokens via the Admin SDK.
type FirebaseVerifier struct {
	client  *firebaseauth.Client
	timeout time.Duration
}

// FirebaseConfig holds the Admin SDK settings.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// NewFirebaseVerifier constructs a verifier backed by the Admin SDK. When no
// credentials file is set, application default credentials are used.
func NewFirebaseVerifier(ctx context.Context, cfg FirebaseConfig) (*FirebaseVerifier, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firebase project id is required")
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client, timeout: defaultVerifyTimeout}, nil
}

// Verify validates the token and extracts the shopper identity. The admin
// flag comes from the "admin" custom claim.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, apperrors.Unauthorized("invalid or expired token")
	}

	id := Identity{UID: decoded.UID}
	if email, ok := decoded.Claims[emailClaim].(string); ok {
		id.Email = email
	}
	if admin, ok := decoded.Claims[adminClaim].(bool); ok {
		id.Admin = admin
	}
	return id, nil
}
