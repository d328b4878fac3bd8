package store

import (
	"context"
	"errors"
)

// Snapshotter is state that can be saved as a single document.
type Snapshotter interface {
	Snapshot() ([]byte, error)
	Restore(data []byte) error
}

// Load restores v from the stored document. A missing document leaves v
// untouched and reports found as false.
func Load(ctx context.Context, s StorageClient, namespace, kind, id string, v Snapshotter) (found bool, err error) {
	data, err := s.GetDocument(ctx, namespace, kind, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := v.Restore(data); err != nil {
		return false, err
	}
	return true, nil
}

// Save stores the snapshot of v.
func Save(ctx context.Context, s StorageClient, namespace, kind, id string, v Snapshotter) error {
	data, err := v.Snapshot()
	if err != nil {
		return err
	}
	return s.PutDocument(ctx, namespace, kind, id, data)
}
