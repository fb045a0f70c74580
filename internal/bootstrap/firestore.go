package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/adminpanel-sm/adminpanel-backend/config"
)

const datastoreScope = "https://www.googleapis.com/auth/datastore"

// InitializeFirestore initializes the Firebase Admin SDK and returns a Firestore client.
// Credentials come from FIREBASE_CREDENTIALS_PATH when set, none at all against
// the emulator, and Application Default Credentials otherwise.
func InitializeFirestore(ctx context.Context, cfg *config.FirebaseConfig) (*firestore.Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}

	var opt option.ClientOption
	switch {
	case cfg.CredentialsPath != "":
		opt = option.WithCredentialsFile(cfg.CredentialsPath)
	case cfg.EmulatorHost != "":
		opt = option.WithoutAuthentication()
	default:
		creds, err := google.FindDefaultCredentials(ctx, datastoreScope)
		if err != nil {
			return nil, fmt.Errorf("find default credentials: %w", err)
		}
		opt = option.WithCredentials(creds)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}
	return client, nil
}
