package corrections

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"

	"location-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// Document is the one logical corrections document: the composite-key mapping
// plus the version stamped by the last successful write (epoch millis).
type Document struct {
	Current map[string]any `json:"current"`
	Version int64          `json:"version"`
}

// emptyDocument returns a fresh document with no corrections.
func emptyDocument() *Document {
	return &Document{Current: make(map[string]any)}
}

// Store persists the corrections document. Implementations do not interpret
// the document; merge and versioning live in the Service.
type Store interface {
	// Load retrieves the current document. A store that has never been
	// written returns an empty document, not an error.
	Load(ctx context.Context) (*Document, error)
	// Save writes the document wholesale.
	Save(ctx context.Context, doc *Document) error
}

// ObjectStore keeps the corrections document as a single JSON object in a
// bucket of the managed key-value store.
type ObjectStore struct {
	client storage.Client
	bucket string
	object string
}

// NewObjectStore creates a store over the given bucket and object name.
func NewObjectStore(client storage.Client, bucket, object string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, object: object}
}

// EnsureBucket creates the backing bucket if it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return &PersistenceError{Op: "bucket check", Err: err}
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return &PersistenceError{Op: "bucket create", Err: err}
		}
	}
	return nil
}

// Load implements Store.
func (s *ObjectStore) Load(ctx context.Context) (*Document, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return emptyDocument(), nil
		}
		return nil, &PersistenceError{Op: "read", Err: err}
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		// The minio client surfaces object-not-found lazily on first read.
		if isNotFound(err) {
			return emptyDocument(), nil
		}
		return nil, &PersistenceError{Op: "read", Err: err}
	}

	if len(body) == 0 {
		return emptyDocument(), nil
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &PersistenceError{Op: "decode", Err: err}
	}
	if doc.Current == nil {
		doc.Current = make(map[string]any)
	}
	return &doc, nil
}

// Save implements Store.
func (s *ObjectStore) Save(ctx context.Context, doc *Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu  sync.Mutex
	doc *Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return emptyDocument(), nil
	}
	// Deep copy through JSON so callers can't mutate the stored document.
	body, err := json.Marshal(s.doc)
	if err != nil {
		return nil, &PersistenceError{Op: "encode", Err: err}
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &PersistenceError{Op: "decode", Err: err}
	}
	if doc.Current == nil {
		doc.Current = make(map[string]any)
	}
	return &doc, nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return nil
}
