package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	correlationKey    = "correlationId"
	multipartOverhead = 1 << 20
)

// Router exposes the same operations as Handle over plain HTTP.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = h.maxUploadBytes
	router.Use(gin.Recovery(), h.correlate())

	router.POST("/analyze", h.ginAnalyze)
	router.GET("/deep-analysis", h.ginDeepAnalysis)
	router.GET("/tips", h.ginDeepAnalysis)
	router.GET("/critique", h.ginCritique)

	router.NoRoute(func(c *gin.Context) { h.write(c, notFound(corrID(c))) })
	router.NoMethod(func(c *gin.Context) { h.write(c, methodNotAllowed(corrID(c))) })
	return router
}

func (h *Handler) correlate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(correlationHeader))
		if id == "" {
			id = correlationID(nil)
		}
		c.Set(correlationKey, id)
		c.Header(correlationHeader, id)
		c.Next()
	}
}

func corrID(c *gin.Context) string {
	return c.GetString(correlationKey)
}

func (h *Handler) write(c *gin.Context, r result) {
	c.JSON(r.status, r.body)
}

func (h *Handler) ginAnalyze(c *gin.Context) {
	file, err := h.ginUpload(c)
	if err != nil {
		h.write(c, h.uploadError(err, corrID(c)))
		return
	}
	h.write(c, h.analyze(c.Request.Context(), file, corrID(c)))
}

func (h *Handler) ginUpload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	if !strings.HasPrefix(strings.ToLower(c.ContentType()), "multipart/form-data") {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, tooLargeOr(err, errMalformedUpload)
		}
		return limitFile(data, h.maxUploadBytes)
	}

	fh, err := c.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errNoFile
		}
		return nil, tooLargeOr(err, errMalformedUpload)
	}
	if fh.Size > h.maxUploadBytes {
		return nil, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errMalformedUpload
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, errMalformedUpload
	}
	return limitFile(data, h.maxUploadBytes)
}

func tooLargeOr(err, fallback error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errFileTooLarge
	}
	return fallback
}

func (h *Handler) ginDeepAnalysis(c *gin.Context) {
	h.write(c, h.deepAnalysis(c.Request.Context(), c.Query(sessionIDParam), corrID(c)))
}

func (h *Handler) ginCritique(c *gin.Context) {
	h.write(c, h.critique(c.Request.Context(), c.Query(sessionIDParam), corrID(c)))
}
