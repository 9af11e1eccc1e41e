package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"resume-critic/internal/document"
	"resume-critic/internal/domain"
	"resume-critic/internal/repository"
	"resume-critic/internal/session"
)

// Extractor turns uploaded document bytes into flat text. Unreadable or empty
// documents fail with a *document.ExtractionError; any other error means the
// extraction engine itself was unavailable.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

type CritiqueGenerator interface {
	Critique(ctx context.Context, text string) Generation
	Tips(ctx context.Context, text string) TipsGeneration
}

type SessionResolver interface {
	Resolve(ctx context.Context, id string) (string, error)
}

// Service is the critique pipeline.
type Service struct {
	extractor Extractor
	generator CritiqueGenerator
	fallback  *FallbackPool
	store     *session.Store
	resolver  SessionResolver
	log       *slog.Logger
}

type AnalyzeInput struct {
	File []byte
}

type AnalyzeOutput struct {
	Critique domain.Critique
	Session  domain.Session
}

type DeepAnalysisInput struct {
	ID string
}

type DeepAnalysisOutput struct {
	Categories []domain.TipCategory
	Source     domain.GeneratedBy
}

type CritiqueInput struct {
	SessionID string
}

func NewService(ex Extractor, gen CritiqueGenerator, fb *FallbackPool, store *session.Store, resolver SessionResolver, log *slog.Logger) (*Service, error) {
	if ex == nil {
		return nil, errors.New("usecase: extractor must not be nil")
	}
	if gen == nil {
		return nil, errors.New("usecase: generator must not be nil")
	}
	if fb == nil {
		return nil, errors.New("usecase: fallback pool must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: session store must not be nil")
	}
	if resolver == nil {
		return nil, errors.New("usecase: session resolver must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		extractor: ex,
		generator: gen,
		fallback:  fb,
		store:     store,
		resolver:  resolver,
		log:       log,
	}, nil
}

// Analyze critiques an uploaded document under a fresh session. Only an
// unreadable document is an error; every later failure degrades to a
// fallback critique.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error) {
	if len(in.File) == 0 {
		return AnalyzeOutput{}, newError(ErrorInvalidInput, "empty_file", nil)
	}

	text, err := s.extractor.ExtractText(ctx, in.File)
	if err != nil {
		if document.IsExtractionError(err) {
			return AnalyzeOutput{}, newError(ErrorInvalidInput, "extraction_failed", err)
		}
		sess := s.newSession()
		s.log.Warn("extraction engine unavailable, serving fallback critique", "sessionId", sess.SessionID, "err", err)
		return AnalyzeOutput{Critique: s.storeCritique(ctx, sess.SessionID, s.fallback.Draw()), Session: sess}, nil
	}

	sess := s.newSession()
	if !s.store.PutDocument(ctx, sess.SessionID, text) {
		s.log.Warn("document not stored, deep analysis will be generic", "sessionId", sess.SessionID)
	}

	gen := s.generator.Critique(ctx, text)
	c := gen.Critique
	if gen.Err != nil {
		s.log.Warn("critique generation failed, serving fallback", "sessionId", sess.SessionID, "reason", gen.Err.Reason)
		c = s.fallback.Draw()
	}
	s.log.Info("critique served", "sessionId", sess.SessionID, "generatedBy", c.GeneratedBy, "expiresAt", sess.ExpiresAt)
	return AnalyzeOutput{Critique: s.storeCritique(ctx, sess.SessionID, c), Session: sess}, nil
}

// newSession mints a session on the store's clock and lifetime.
func (s *Service) newSession() domain.Session {
	return domain.NewSession(newUUID(), s.store.Now(), s.store.TTL())
}

func (s *Service) storeCritique(ctx context.Context, sessionID string, c domain.Critique) domain.Critique {
	c.SessionID = sessionID
	c = c.Clamped()
	s.store.PutCritique(ctx, c)
	return c
}

// DeepAnalysis produces tip lists for a session or for an identifier issued
// by an external workflow. It falls back to generic tips whenever no
// personalized result can be produced.
func (s *Service) DeepAnalysis(ctx context.Context, in DeepAnalysisInput) (DeepAnalysisOutput, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return DeepAnalysisOutput{}, newError(ErrorInvalidInput, "missing_session_id", nil)
	}

	sessionID, err := s.resolver.Resolve(ctx, id)
	if err != nil {
		s.log.Info("no session for deep analysis, serving generic tips", "id", id, "err", err)
		return genericTips(), nil
	}

	rec, err := s.store.GetDocument(ctx, sessionID)
	if err != nil {
		s.log.Warn("deep analysis document unavailable, serving generic tips", "id", id, "sessionId", sessionID, "err", err)
		return genericTips(), nil
	}

	gen := s.generator.Tips(ctx, rec.RawText)
	if gen.Err != nil {
		s.log.Warn("tips generation failed, serving generic tips", "sessionId", sessionID, "reason", gen.Err.Reason)
		return genericTips(), nil
	}
	return DeepAnalysisOutput{Categories: gen.Categories, Source: domain.GeneratedByModel}, nil
}

func genericTips() DeepAnalysisOutput {
	return DeepAnalysisOutput{Categories: FallbackTips(), Source: domain.GeneratedByFallback}
}

// Critique returns the stored critique of a session.
func (s *Service) Critique(ctx context.Context, in CritiqueInput) (domain.Critique, error) {
	id := strings.TrimSpace(in.SessionID)
	if id == "" {
		return domain.Critique{}, newError(ErrorInvalidInput, "missing_session_id", nil)
	}
	c, err := s.store.GetCritique(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Critique{}, newError(ErrorNotFound, "critique_not_found", nil)
		}
		return domain.Critique{}, newError(ErrorInternal, "store_read_error", err)
	}
	return c, nil
}

var newUUID = func() string {
	return uuid.NewString()
}
