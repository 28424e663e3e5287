// Package store defines the persistence ports for the two ledger stores:
// the record slot (whole collection, synchronous semantics) and the keyed
// attachment blob store. The two have independent lifecycles; nothing here
// enforces referential integrity between them.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"librospese/internal/core"
)

type (
	// RecordStore persists the full record collection as one unit. Load is
	// fail-soft: a malformed persisted payload yields an empty collection,
	// not an error; only an unreachable store errors.
	RecordStore interface {
		Load(ctx context.Context) ([]core.Record, error)
		Save(ctx context.Context, records []core.Record) error
	}

	// AttachmentStore keeps at most one binary attachment per record id.
	// Put with an empty payload stores an explicit tombstone; Get returns
	// nil without error when no entry exists.
	AttachmentStore interface {
		Put(ctx context.Context, a core.Attachment) error
		Get(ctx context.Context, expenseID string) (*core.Attachment, error)
		Delete(ctx context.Context, expenseID string) error
	}
)

// presenceLookupLimit bounds the concurrent per-id lookups.
const presenceLookupLimit = 4

// Presence returns the subset of ids that currently hold a non-empty
// attachment. It issues one lookup per id, a few at a time; tombstones and
// unknown ids are excluded.
func Presence(ctx context.Context, s AttachmentStore, ids []string) (map[string]struct{}, error) {
	present := make(map[string]struct{}, len(ids))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(presenceLookupLimit)
	for _, id := range ids {
		g.Go(func() error {
			a, err := s.Get(ctx, id)
			if err != nil {
				return err
			}
			if a != nil && !a.Empty() {
				mu.Lock()
				present[id] = struct{}{}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return present, nil
}
