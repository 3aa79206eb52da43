package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MediaEncoder turns an uploaded avatar, banner or audio file into a
// self-contained data URI. The MIME type is sniffed from the content, never
// taken from the client.
type MediaEncoder struct {
	maxBytes int64
}

func NewMediaEncoder(maxBytes int64) *MediaEncoder {
	return &MediaEncoder{maxBytes: maxBytes}
}

func (e *MediaEncoder) MaxBytes() int64 {
	return e.maxBytes
}

// Encode reads at most maxBytes+1 bytes from r and returns
// "data:<mime>;base64,<payload>".
func (e *MediaEncoder) Encode(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", &ValidationError{Field: "file", Message: "is empty"}
	}
	if int64(len(data)) > e.maxBytes {
		return "", &ValidationError{Field: "file", Message: fmt.Sprintf("exceeds %d bytes", e.maxBytes)}
	}

	mtype := mimetype.Detect(data)
	mime := mtype.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") && !strings.HasPrefix(mime, "audio/") {
		return "", &ValidationError{Field: "file", Message: fmt.Sprintf("unsupported media type %s", mime)}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
