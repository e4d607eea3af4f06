package repository

import (
	"context"
	"errors"

	"truckhub/internal/domain/entity"
)

var ErrSnapshotNotFound = errors.New("draft snapshot not found")

// DraftSnapshotStore keeps the latest wizard state per session key. Writes
// are last-write-wins.
type DraftSnapshotStore interface {
	Save(ctx context.Context, key string, state *entity.WizardState) error
	// Load returns ErrSnapshotNotFound when nothing is stored under key.
	Load(ctx context.Context, key string) (*entity.WizardState, error)
	Clear(ctx context.Context, key string) error
}
