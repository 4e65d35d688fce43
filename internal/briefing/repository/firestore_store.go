package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

// DefaultCollection holds one document per client, id = record key
const DefaultCollection = "briefings"

const healthDoc = "__health"

// FirestoreStore is the remote document-store backend
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{client: client, collection: collection, now: time.Now}
}

// Store replaces the whole document, no field merge
func (r *FirestoreStore) Store(ctx context.Context, key string, rec domain.ClientRecord) error {
	if err := validKey(key); err != nil {
		return err
	}
	rec.Normalize()
	env := domain.Envelope{LastUpdated: r.now().UTC(), Data: rec}
	if _, err := r.client.Collection(r.collection).Doc(key).Set(ctx, env); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

func (r *FirestoreStore) Fetch(ctx context.Context, key string) (domain.ClientRecord, bool, error) {
	if err := validKey(key); err != nil {
		return domain.ClientRecord{}, false, err
	}
	snap, err := r.client.Collection(r.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.ClientRecord{}, false, nil
	}
	if err != nil {
		return domain.ClientRecord{}, false, fmt.Errorf("failed to get record: %w", err)
	}

	var env domain.Envelope
	if err := snap.DataTo(&env); err != nil {
		log.Printf("[warn] operation=firestore_store.fetch key=%s malformed document, treating as absent: %v", key, err)
		return domain.ClientRecord{}, false, nil
	}
	env.Data.Normalize()
	return env.Data, true, nil
}

// Ping reads a document that is never written. NotFound means the project
// answered, anything else is reported.
func (r *FirestoreStore) Ping(ctx context.Context) error {
	_, err := r.client.Collection(r.collection).Doc(healthDoc).Get(ctx)
	if err == nil || status.Code(err) == codes.NotFound {
		return nil
	}
	return fmt.Errorf("firestore unreachable: %w", err)
}

// Close releases the underlying client
func (r *FirestoreStore) Close() error {
	return r.client.Close()
}
