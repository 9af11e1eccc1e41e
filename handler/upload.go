package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
)

const uploadField = "file"

var (
	errNoFile          = errors.New("handler: no file uploaded")
	errFileTooLarge    = errors.New("handler: file too large")
	errMalformedUpload = errors.New("handler: malformed upload")
)

// readUpload returns the uploaded document from a request body. A
// multipart/form-data body must carry the document in the "file" field; any
// other body is the document itself.
func readUpload(contentType string, body []byte, maxBytes int64) ([]byte, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return limitFile(body, maxBytes)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("%w: missing multipart boundary", errMalformedUpload)
	}
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		// A truncated stream wraps io.EOF; only a bare io.EOF is a clean end.
		if err == io.EOF {
			return nil, errNoFile
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedUpload, err)
		}
		if part.FormName() != uploadField {
			_ = part.Close()
			continue
		}
		data, err := io.ReadAll(io.LimitReader(part, maxBytes+1))
		_ = part.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedUpload, err)
		}
		return limitFile(data, maxBytes)
	}
}

func limitFile(data []byte, maxBytes int64) ([]byte, error) {
	if len(data) == 0 {
		return nil, errNoFile
	}
	if int64(len(data)) > maxBytes {
		return nil, errFileTooLarge
	}
	return data, nil
}
