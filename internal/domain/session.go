package domain

import "time"

// Session pairs one uploaded document with its derived critique.
type Session struct {
	SessionID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession returns a Session that expires ttl after now.
func NewSession(id string, now time.Time, ttl time.Duration) Session {
	return Session{SessionID: id, CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

// DocumentRecord holds the extracted text of a session's document.
type DocumentRecord struct {
	SessionID string    `json:"sessionId"`
	RawText   string    `json:"rawText"`
	StoredAt  time.Time `json:"storedAt"`
}

// SessionMapping binds an externally issued identifier to an internal session.
// A mapping is never rewritten once created.
type SessionMapping struct {
	ExternalID string    `json:"externalId"`
	InternalID string    `json:"internalId"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
