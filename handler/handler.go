package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"resume-critic/internal/domain"
	"resume-critic/internal/usecase"
)

const (
	correlationHeader     = "X-Correlation-Id"
	defaultMaxUploadBytes = 10 << 20
	sessionIDParam        = "session_id"
)

type UseCase interface {
	Analyze(ctx context.Context, in usecase.AnalyzeInput) (usecase.AnalyzeOutput, error)
	DeepAnalysis(ctx context.Context, in usecase.DeepAnalysisInput) (usecase.DeepAnalysisOutput, error)
	Critique(ctx context.Context, in usecase.CritiqueInput) (domain.Critique, error)
}

type Handler struct {
	uc             UseCase
	maxUploadBytes int64
	log            *slog.Logger
}

type Option func(*Handler)

// WithMaxUploadBytes caps the size of an uploaded document.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func NewHandler(uc UseCase, opts ...Option) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	h := &Handler{uc: uc, maxUploadBytes: defaultMaxUploadBytes, log: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type critiqueResponse struct {
	AnalysisText     string     `json:"analysisText"`
	HumiliationScore int        `json:"humiliationScore"`
	QualityScore     int        `json:"qualityScore"`
	SessionID        string     `json:"sessionId"`
	GeneratedBy      string     `json:"generatedBy"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

type deepAnalysisResponse struct {
	Categories []domain.TipCategory `json:"categories"`
	Source     string               `json:"source"`
}

type errorResponse struct {
	Error         string `json:"error"`
	Reason        string `json:"reason,omitempty"`
	CorrelationID string `json:"correlationId"`
}

// Handle serves API Gateway proxy events.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(req.Headers)

	switch route(req.Path) {
	case "/analyze":
		if req.HTTPMethod != http.MethodPost {
			return jsonResponse(methodNotAllowed(corrID), corrID), nil
		}
		body, err := requestBody(req)
		if err != nil {
			return jsonResponse(newResult(http.StatusBadRequest, errorResponse{
				Error:         string(usecase.ErrorInvalidInput),
				Reason:        "invalid_body",
				CorrelationID: corrID,
			}), corrID), nil
		}
		file, err := readUpload(header(req.Headers, "Content-Type"), body, h.maxUploadBytes)
		if err != nil {
			return jsonResponse(h.uploadError(err, corrID), corrID), nil
		}
		return jsonResponse(h.analyze(ctx, file, corrID), corrID), nil

	case "/deep-analysis", "/tips":
		if req.HTTPMethod != http.MethodGet {
			return jsonResponse(methodNotAllowed(corrID), corrID), nil
		}
		return jsonResponse(h.deepAnalysis(ctx, req.QueryStringParameters[sessionIDParam], corrID), corrID), nil

	case "/critique":
		if req.HTTPMethod != http.MethodGet {
			return jsonResponse(methodNotAllowed(corrID), corrID), nil
		}
		return jsonResponse(h.critique(ctx, req.QueryStringParameters[sessionIDParam], corrID), corrID), nil
	}
	return jsonResponse(notFound(corrID), corrID), nil
}

// result is a transport-neutral response.
type result struct {
	status int
	body   any
}

func newResult(status int, body any) result {
	return result{status: status, body: body}
}

func (h *Handler) analyze(ctx context.Context, file []byte, corrID string) result {
	out, err := h.uc.Analyze(ctx, usecase.AnalyzeInput{File: file})
	if err != nil {
		return h.errorResult(err, corrID)
	}
	resp := toCritiqueResponse(out.Critique)
	if !out.Session.ExpiresAt.IsZero() {
		expiresAt := out.Session.ExpiresAt.UTC()
		resp.ExpiresAt = &expiresAt
	}
	return newResult(http.StatusOK, resp)
}

func (h *Handler) deepAnalysis(ctx context.Context, id, corrID string) result {
	out, err := h.uc.DeepAnalysis(ctx, usecase.DeepAnalysisInput{ID: id})
	if err != nil {
		return h.errorResult(err, corrID)
	}
	return newResult(http.StatusOK, deepAnalysisResponse{Categories: out.Categories, Source: string(out.Source)})
}

func (h *Handler) critique(ctx context.Context, id, corrID string) result {
	c, err := h.uc.Critique(ctx, usecase.CritiqueInput{SessionID: id})
	if err != nil {
		return h.errorResult(err, corrID)
	}
	return newResult(http.StatusOK, toCritiqueResponse(c))
}

func toCritiqueResponse(c domain.Critique) critiqueResponse {
	return critiqueResponse{
		AnalysisText:     c.AnalysisText,
		HumiliationScore: c.HumiliationScore,
		QualityScore:     c.QualityScore,
		SessionID:        c.SessionID,
		GeneratedBy:      string(c.GeneratedBy),
	}
}

func (h *Handler) errorResult(err error, corrID string) result {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		h.log.Error("unexpected use case error", "correlationId", corrID, "err", err)
		return newResult(http.StatusInternalServerError, errorResponse{
			Error:         string(usecase.ErrorInternal),
			CorrelationID: corrID,
		})
	}

	status := statusFor(ucErr.Code)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "correlationId", corrID, "code", ucErr.Code, "reason", ucErr.Reason, "err", ucErr.Err)
	} else {
		h.log.Info("request rejected", "correlationId", corrID, "code", ucErr.Code, "reason", ucErr.Reason, "err", ucErr.Err)
	}
	return newResult(status, errorResponse{
		Error:         string(ucErr.Code),
		Reason:        ucErr.Reason,
		CorrelationID: corrID,
	})
}

func (h *Handler) uploadError(err error, corrID string) result {
	status := http.StatusBadRequest
	reason := "no_file"
	switch {
	case errors.Is(err, errFileTooLarge):
		status = http.StatusRequestEntityTooLarge
		reason = "file_too_large"
	case errors.Is(err, errMalformedUpload):
		reason = "invalid_body"
	}
	h.log.Info("upload rejected", "correlationId", corrID, "reason", reason, "err", err)
	return newResult(status, errorResponse{
		Error:         string(usecase.ErrorInvalidInput),
		Reason:        reason,
		CorrelationID: corrID,
	})
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	case usecase.ErrorNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func notFound(corrID string) result {
	return newResult(http.StatusNotFound, errorResponse{
		Error:         string(usecase.ErrorNotFound),
		Reason:        "route_not_found",
		CorrelationID: corrID,
	})
}

func methodNotAllowed(corrID string) result {
	return newResult(http.StatusMethodNotAllowed, errorResponse{
		Error:         string(usecase.ErrorInvalidInput),
		Reason:        "method_not_allowed",
		CorrelationID: corrID,
	})
}

func jsonResponse(r result, corrID string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(r.body)
	if err != nil {
		r.status = http.StatusInternalServerError
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: r.status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
		Body: string(body),
	}
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	return base64.StdEncoding.DecodeString(req.Body)
}

func route(path string) string {
	path = strings.TrimSpace(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func header(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func correlationID(headers map[string]string) string {
	if v := strings.TrimSpace(header(headers, correlationHeader)); v != "" {
		return v
	}
	return uuid.NewString()
}
