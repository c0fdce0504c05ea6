package repository

import (
	"context"

	"github.com/sakif/textshare/internal/model"
)

// TextRepository is the persistence contract for snippets. Both backends
// (sqlite, file) implement it; tests use an in-memory mock.
//
// Contract notes shared by all implementations:
//
//   - Save overwrites any existing record at the same id atomically — it is
//     used both for creation and for activity-refresh updates. CreatedAt is
//     stamped on first save and preserved afterwards.
//   - Load enforces expiration: a record whose deadline has passed is
//     deleted and reported as not found. Corrupt records are reported as
//     not found too; callers can't distinguish, and shouldn't.
//   - Delete is idempotent — deleting an absent record is not an error.
//   - Exists answers the code generator without decoding the record.
type TextRepository interface {
	Save(ctx context.Context, snippet *model.Snippet) error
	Load(ctx context.Context, id string) (*model.Snippet, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
