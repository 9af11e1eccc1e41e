package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resume-critic/internal/domain"
)

const defaultGenerationTimeout = 25 * time.Second

// ParamGetter loads several parameters in one round trip.
type ParamGetter interface {
	GetParameters(ctx context.Context, names ...string) (map[string]string, error)
}

// ChatClient sends a single chat completion request and returns its content.
type ChatClient interface {
	Chat(ctx context.Context, req domain.ChatRequest) (string, error)
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// truncater is implemented by chat errors for completions cut off mid-output.
type truncater interface {
	Truncated() bool
}

// Generation is the outcome of a critique call. Exactly one of Critique and
// Err is meaningful.
type Generation struct {
	Critique domain.Critique
	Err      *GenerationError
}

// TipsGeneration is the outcome of a deep analysis call.
type TipsGeneration struct {
	Categories []domain.TipCategory
	Err        *GenerationError
}

// Generator makes single-attempt generative calls under a fixed timeout.
type Generator struct {
	chat        ChatClient
	params      ParamGetter
	paramPrefix string
	timeout     time.Duration
	log         *slog.Logger

	cacheMu       sync.RWMutex
	cacheLoaded   bool
	critiqueModel string
	tipsModel     string
}

func NewGenerator(chat ChatClient, params ParamGetter, paramPrefix string, timeout time.Duration, log *slog.Logger) (*Generator, error) {
	if chat == nil {
		return nil, errors.New("usecase: chat client must not be nil")
	}
	if params == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		chat:        chat,
		params:      params,
		paramPrefix: paramPrefix,
		timeout:     timeout,
		log:         log,
	}, nil
}

// Critique asks the model for a critique of text. Scores in the result are
// clamped and the analysis text is normalized.
func (g *Generator) Critique(ctx context.Context, text string) Generation {
	if err := g.ensureConfig(ctx); err != nil {
		return Generation{Err: g.fail("critique", ReasonConfigUnavailable, err)}
	}

	raw, gerr := g.call(ctx, "critique", domain.ChatRequest{
		Model:       g.critiqueModel,
		Messages:    buildCritiqueMessages(text),
		Temperature: floatPtr(critiqueTemperature),
		MaxTokens:   maxCompletionTokens,
		Schema:      critiqueSchema,
	})
	if gerr != nil {
		return Generation{Err: gerr}
	}

	c, err := parseCritique(raw)
	if err != nil {
		return Generation{Err: g.fail("critique", parseReason(err), err)}
	}
	c.AnalysisText = formatAnalysis(c.AnalysisText)
	return Generation{Critique: c.Clamped()}
}

// Tips asks the model for labeled recommendation lists for text.
func (g *Generator) Tips(ctx context.Context, text string) TipsGeneration {
	if err := g.ensureConfig(ctx); err != nil {
		return TipsGeneration{Err: g.fail("tips", ReasonConfigUnavailable, err)}
	}

	raw, gerr := g.call(ctx, "tips", domain.ChatRequest{
		Model:       g.tipsModel,
		Messages:    buildTipsMessages(text),
		Temperature: floatPtr(tipsTemperature),
		MaxTokens:   maxCompletionTokens,
		Schema:      tipsSchema,
	})
	if gerr != nil {
		return TipsGeneration{Err: gerr}
	}

	categories, err := parseTips(raw)
	if err != nil {
		return TipsGeneration{Err: g.fail("tips", parseReason(err), err)}
	}
	return TipsGeneration{Categories: categories}
}

func (g *Generator) call(ctx context.Context, kind string, req domain.ChatRequest) (string, *GenerationError) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.chat.Chat(ctx, req)
	if err != nil {
		return "", g.fail(kind, classifyChatError(ctx, err), err)
	}
	return raw, nil
}

func (g *Generator) fail(kind string, reason GenerationReason, err error) *GenerationError {
	g.log.Warn("generation failed", "kind", kind, "reason", reason, "err", err)
	return &GenerationError{Reason: reason}
}

func classifyChatError(ctx context.Context, err error) GenerationReason {
	var t truncater
	if errors.As(err, &t) && t.Truncated() {
		return ReasonMalformedOutput
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	if status, ok := upstreamStatusCode(err); ok && status == http.StatusTooManyRequests {
		return ReasonRateLimited
	}
	return ReasonUpstream
}

func (g *Generator) ensureConfig(ctx context.Context) error {
	g.cacheMu.RLock()
	if g.cacheLoaded {
		g.cacheMu.RUnlock()
		return nil
	}
	g.cacheMu.RUnlock()

	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()
	if g.cacheLoaded {
		return nil
	}

	critiqueModel, tipsModel, err := g.loadModels(ctx)
	if err != nil {
		return err
	}

	g.critiqueModel = critiqueModel
	g.tipsModel = tipsModel
	g.cacheLoaded = true
	return nil
}

func (g *Generator) loadModels(ctx context.Context) (critiqueModel, tipsModel string, err error) {
	critiqueName := g.paramPrefix + "/config/critique_model"
	tipsName := g.paramPrefix + "/config/tips_model"

	vals, err := g.params.GetParameters(ctx, critiqueName, tipsName)
	if err != nil {
		return "", "", fmt.Errorf("usecase: load models: %w", err)
	}
	critiqueModel = strings.TrimSpace(vals[critiqueName])
	tipsModel = strings.TrimSpace(vals[tipsName])
	if critiqueModel == "" || tipsModel == "" {
		return "", "", errors.New("usecase: load models: model name is empty")
	}
	return critiqueModel, tipsModel, nil
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}

func floatPtr(v float64) *float64 {
	return &v
}
