// Package store defines the document store the registration service writes
// user records to. Documents are schema-flexible JSON objects grouped by
// collection and keyed by a store-assigned id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// UsersCollection holds one document per registered user.
const UsersCollection = "users"

var (
	// ErrNotFound is returned when a document id does not exist in the collection.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidCollection is returned for empty or malformed collection names.
	ErrInvalidCollection = errors.New("invalid collection name")
)

// Document is a schema-flexible record.
type Document map[string]any

type serverTimestamp struct{}

// ServerTimestamp may be used as a field value; the store replaces it with
// its own clock when the document is written.
var ServerTimestamp any = serverTimestamp{}

// DocumentStore is the minimal capability the registration workflow needs.
type DocumentStore interface {
	CreateDocument(ctx context.Context, collection string, doc Document) (string, error)
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	// UpdateDocument merges fields into an existing document.
	UpdateDocument(ctx context.Context, collection, id string, fields Document) error
	Close() error
}

var collectionPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// ValidateCollection rejects names a backend could not use as a table or key prefix.
func ValidateCollection(name string) error {
	if !collectionPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// FormatTimestamp is the wire form of resolved server timestamps.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Resolve returns a copy of doc with every ServerTimestamp replaced by now.
func Resolve(doc Document, now time.Time) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = FormatTimestamp(now)
			continue
		}
		out[k] = v
	}
	return out
}

// Encode resolves server timestamps and marshals doc to JSON.
func Encode(doc Document, now time.Time) ([]byte, error) {
	body, err := json.Marshal(Resolve(doc, now))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return body, nil
}

// Decode unmarshals a stored JSON body.
func Decode(body []byte) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
