// Package firestore implements the domain repositories on Cloud Firestore.
//
// Layout:
//
//	users/{uid}                 domain.User
//	users/{uid}/entries/{id}    domain.Entry
//	accounts/{email}            {userId}, enforces unique emails
//	sessions/{token}            domain.Session
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection    = "users"
	entriesCollection  = "entries"
	accountsCollection = "accounts"
	sessionsCollection = "sessions"
)

// DB wraps a Firestore client and implements domain repository interfaces.
type DB struct {
	client *firestore.Client
}

// Open connects to the project. An empty credentialsFile uses the ambient
// application default credentials (or the emulator when
// FIRESTORE_EMULATOR_HOST is set).
func Open(ctx context.Context, projectID, credentialsFile string) (*DB, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &DB{client: c}, nil
}

// Close releases the client.
func (d *DB) Close() error {
	return d.client.Close()
}

// Ping reads a document that never exists; NotFound proves the backend answered.
func (d *DB) Ping(ctx context.Context) error {
	_, err := d.client.Collection("_health").Doc("ping").Get(ctx)
	if err == nil || isNotFound(err) {
		return nil
	}
	return err
}

func (d *DB) entries(userID string) *firestore.CollectionRef {
	return d.client.Collection(usersCollection).Doc(userID).Collection(entriesCollection)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
