package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"truckhub/pkg/logger"
)

// Clients bundles the Firebase services the listing API uses.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// CredentialsOption prefers inline service account JSON (production) and
// falls back to a credentials file. It returns nil when neither is set so
// Application Default Credentials apply.
func CredentialsOption(credentialsJSON, credentialsPath string) (option.ClientOption, error) {
	if credentialsJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(credentialsJSON)), nil
	}
	if credentialsPath == "" {
		logger.Info("No Firebase service account configured, using application default credentials")
		return nil, nil
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("service account file %s: %w", credentialsPath, err)
	}
	logger.Info("Using Firebase service account from file: %s", credentialsPath)
	return option.WithCredentialsFile(credentialsPath), nil
}

func NewClients(ctx context.Context, projectID string, opt option.ClientOption) (*Clients, error) {
	var opts []option.ClientOption
	if opt != nil {
		opts = append(opts, opt)
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &Clients{Auth: authClient, Firestore: firestoreClient}, nil
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}
