// Package session keeps per-session state (extracted text, critiques and
// external-id mappings) in a TTL key-value backend and reconciles external
// identifiers back to the session that owns the source text.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"resume-critic/internal/domain"
	"resume-critic/internal/repository"
)

const (
	documentPrefix = "cv_"
	critiquePrefix = "critique_"
	mappingPrefix  = "map_"

	DefaultTTL = 24 * time.Hour
)

func documentKey(sessionID string) string { return documentPrefix + sessionID }
func critiqueKey(sessionID string) string { return critiquePrefix + sessionID }
func mappingKey(externalID string) string { return mappingPrefix + externalID }

// Store is the typed view over a repository.KV. Writes never fail the caller:
// backend errors are logged and dropped.
type Store struct {
	kv  repository.KV
	ttl time.Duration
	now func() time.Time
	log *slog.Logger
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func NewStore(kv repository.KV, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, errors.New("session: kv must not be nil")
	}
	s := &Store{kv: kv, ttl: DefaultTTL, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL is the lifetime applied to every entry written by s.
func (s *Store) TTL() time.Duration { return s.ttl }

// Now is the clock s stamps records with.
func (s *Store) Now() time.Time { return s.now() }

// PutDocument stores the extracted text for a session, replacing any earlier
// record. It reports whether the write reached the backend.
func (s *Store) PutDocument(ctx context.Context, sessionID, text string) bool {
	return s.putJSON(ctx, documentKey(sessionID), domain.DocumentRecord{
		SessionID: sessionID,
		RawText:   text,
		StoredAt:  s.now().UTC(),
	})
}

func (s *Store) GetDocument(ctx context.Context, sessionID string) (domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	if err := s.getJSON(ctx, documentKey(sessionID), &rec); err != nil {
		return domain.DocumentRecord{}, err
	}
	return rec, nil
}

// PutCritique stores c under its session id with scores clamped.
func (s *Store) PutCritique(ctx context.Context, c domain.Critique) bool {
	return s.putJSON(ctx, critiqueKey(c.SessionID), c.Clamped())
}

func (s *Store) GetCritique(ctx context.Context, sessionID string) (domain.Critique, error) {
	var c domain.Critique
	if err := s.getJSON(ctx, critiqueKey(sessionID), &c); err != nil {
		return domain.Critique{}, err
	}
	return c.Clamped(), nil
}

// PutMapping binds externalID to internalID for one TTL from now.
func (s *Store) PutMapping(ctx context.Context, externalID, internalID string) (domain.SessionMapping, bool) {
	now := s.now().UTC()
	m := domain.SessionMapping{
		ExternalID: externalID,
		InternalID: internalID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	return m, s.putJSON(ctx, mappingKey(externalID), m)
}

func (s *Store) GetMapping(ctx context.Context, externalID string) (domain.SessionMapping, error) {
	var m domain.SessionMapping
	if err := s.getJSON(ctx, mappingKey(externalID), &m); err != nil {
		return domain.SessionMapping{}, err
	}
	if strings.TrimSpace(m.InternalID) == "" {
		return domain.SessionMapping{}, fmt.Errorf("session: mapping %q has no internal id", externalID)
	}
	return m, nil
}

// DocumentSessionIDs lists the session ids of every live document record in
// ascending lexicographic order.
func (s *Store) DocumentSessionIDs(ctx context.Context) ([]string, error) {
	keys, err := s.kv.ListKeysWithPrefix(ctx, documentPrefix)
	if err != nil {
		return nil, fmt.Errorf("session: list documents: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimPrefix(k, documentPrefix)
		if id == "" || id == k {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) putJSON(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("session store marshal failed", "key", key, "err", err)
		return false
	}
	if err := s.kv.Put(ctx, key, string(data), s.ttl); err != nil {
		s.log.Error("session store write failed", "key", key, "err", err)
		return false
	}
	return true
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("session: read %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("session: decode %q: %w", key, err)
	}
	return nil
}
