package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"resume-critic/internal/repository"
)

// ErrSessionNotFound means no live session could be bound to an identifier.
var ErrSessionNotFound = errors.New("session: not found")

// Correlator reconciles identifiers minted outside the upload request (for
// example by a payment workflow) to the session holding the source text.
//
// When several live sessions exist and the identifier has never been seen, it
// binds to the lexicographically smallest session id. That choice is
// deterministic but not necessarily the session the caller meant. Once a
// binding is persisted it is returned unchanged until it expires. Two
// concurrent first resolutions may bind differently; the mapping written last
// is the one later calls observe.
type Correlator struct {
	store *Store
	log   *slog.Logger
}

func NewCorrelator(store *Store, log *slog.Logger) (*Correlator, error) {
	if store == nil {
		return nil, errors.New("session: store must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Correlator{store: store, log: log}, nil
}

// Resolve returns the internal session id for id, or ErrSessionNotFound.
// A blank id never matches a session; rejecting it as bad input is up to the
// caller. A lookup that fails for any reason other than absence also yields
// ErrSessionNotFound, so an existing mapping is never rebound because it
// could not be read.
func (c *Correlator) Resolve(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrSessionNotFound
	}

	_, err := c.store.GetDocument(ctx, id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		c.log.Warn("correlator document lookup failed", "id", id, "err", err)
		return "", fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	m, err := c.store.GetMapping(ctx, id)
	if err == nil {
		return m.InternalID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		c.log.Warn("correlator mapping lookup failed", "id", id, "err", err)
		return "", fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	candidates, err := c.store.DocumentSessionIDs(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	if len(candidates) == 0 {
		return "", ErrSessionNotFound
	}

	internalID := candidates[0]
	if len(candidates) > 1 {
		c.log.Warn("correlator bound ambiguous identifier",
			"external_id", id, "internal_id", internalID, "candidates", len(candidates))
	}
	if _, ok := c.store.PutMapping(ctx, id, internalID); !ok {
		c.log.Warn("correlator mapping not persisted", "external_id", id, "internal_id", internalID)
	}
	return internalID, nil
}
