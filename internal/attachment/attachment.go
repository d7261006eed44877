// Package attachment handles image attachments for chat submissions.
//
// An attachment is carried as raw bytes plus its media type, and can be
// round-tripped through a self-describing data URL suitable for both
// preview rendering and provider submission.
package attachment

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxImageSize caps attachments at 20MB.
	MaxImageSize = 20 * 1024 * 1024
)

// SupportedImageTypes returns the MIME types accepted for submission.
func SupportedImageTypes() []string {
	return []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	}
}

// Attachment is an inline-encoded image ready for submission.
type Attachment struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// FromFile loads an image attachment from disk, detecting its media type
// from the file extension.
func FromFile(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxImageSize {
		return nil, fmt.Errorf("file size exceeds maximum %d bytes", MaxImageSize)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if !isSupportedType(mimeType) {
		return nil, fmt.Errorf("unsupported image type: %s", mimeType)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &Attachment{MIMEType: mimeType, Data: data}, nil
}

// DataURL encodes the attachment as data:<mime>;base64,<payload>.
func (a *Attachment) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", a.MIMEType, base64.StdEncoding.EncodeToString(a.Data))
}

// Size returns the raw payload size in bytes.
func (a *Attachment) Size() int64 {
	return int64(len(a.Data))
}

// ParseDataURL recovers an attachment from its data URL encoding.
// The media type is parsed back out of the declared prefix.
func ParseDataURL(s string) (*Attachment, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL: missing payload")
	}

	mimeType, params, _ := strings.Cut(meta, ";")
	if mimeType == "" {
		return nil, fmt.Errorf("malformed data URL: missing media type")
	}
	if params != "base64" {
		return nil, fmt.Errorf("malformed data URL: payload is not base64")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return &Attachment{MIMEType: mimeType, Data: data}, nil
}

func isSupportedType(mimeType string) bool {
	for _, t := range SupportedImageTypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}
