// Package store persists computed layouts and estimate sets so they can be
// fetched again by ID.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local maps, for tests and a standalone server
//   - [FileStore]: one JSON file per document, for the CLI
//   - [MongoStore]: MongoDB collections, for shared deployments
//
// # Usage
//
//	st := store.NewMemoryStore()
//	doc := &store.LayoutDoc{Layout: l}
//	if err := st.SaveLayout(ctx, doc); err != nil {
//	    return err
//	}
//	got, err := st.GetLayout(ctx, doc.ID)
//
// Save assigns a random UUID when the document has no ID. Get returns a
// NOT_FOUND error for unknown IDs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/layout"
	"github.com/matzehuels/phylolane/pkg/mrca"
)

// LayoutDoc is a stored layout.
type LayoutDoc struct {
	ID        string        `json:"id" bson:"_id"`
	Layout    layout.Layout `json:"layout" bson:"layout"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// IndexDoc is a stored estimate set. Indexes are rebuilt from the estimates
// on load, so only the inputs are persisted.
type IndexDoc struct {
	ID         string          `json:"id" bson:"_id"`
	Hash       string          `json:"hash,omitempty" bson:"hash,omitempty"`
	Duplicates string          `json:"duplicates,omitempty" bson:"duplicates,omitempty"`
	Estimates  []mrca.Estimate `json:"estimates" bson:"estimates"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
}

// Build rebuilds the index described by the document.
func (d *IndexDoc) Build() (*mrca.Index, error) {
	policy, err := mrca.ParseDuplicatePolicy(d.Duplicates)
	if err != nil {
		return nil, err
	}
	return mrca.Build(d.Estimates, mrca.WithDuplicatePolicy(policy))
}

// Store is the interface for document storage backends.
type Store interface {
	// SaveLayout stores doc, assigning an ID and creation time if unset.
	SaveLayout(ctx context.Context, doc *LayoutDoc) error
	// GetLayout retrieves a layout. Unknown IDs are NOT_FOUND errors.
	GetLayout(ctx context.Context, id string) (*LayoutDoc, error)
	// DeleteLayout removes a layout. Deleting an unknown ID is not an error.
	DeleteLayout(ctx context.Context, id string) error

	// SaveIndex stores doc, assigning an ID and creation time if unset.
	SaveIndex(ctx context.Context, doc *IndexDoc) error
	// GetIndex retrieves an estimate set. Unknown IDs are NOT_FOUND errors.
	GetIndex(ctx context.Context, id string) (*IndexDoc, error)

	Close() error
}

func prepare(id *string, created *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if created.IsZero() {
		*created = time.Now().UTC()
	}
}

func layoutNotFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
}

func indexNotFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "index %q not found", id)
}
