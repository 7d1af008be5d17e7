// ABOUTME: Builds inline file attachments from files on disk
// ABOUTME: Encodes content as base64 data URLs so records stay self-contained

package models

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxAttachmentSize caps a single inline attachment.
const MaxAttachmentSize = 10 << 20

// NewAttachment encodes content as a data URL attachment.
func NewAttachment(name string, content []byte) FileAttachment {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if mimeType == "" {
		mimeType = http.DetectContentType(content)
	}
	// Drop parameters such as "; charset=utf-8" from the stored type.
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return FileAttachment{
		ID:   NewID(),
		Name: name,
		Type: mimeType,
		Size: int64(len(content)),
		URL:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content),
	}
}

// NewAttachmentFromFile reads path and returns it as an inline attachment.
func NewAttachmentFromFile(path string) (FileAttachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileAttachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.Size() > MaxAttachmentSize {
		return FileAttachment{}, fmt.Errorf("attachment %s is %d bytes (max %d)", filepath.Base(path), info.Size(), MaxAttachmentSize)
	}
	content, err := os.ReadFile(path) //nolint:gosec // user-chosen attachment path
	if err != nil {
		return FileAttachment{}, fmt.Errorf("read attachment: %w", err)
	}
	return NewAttachment(filepath.Base(path), content), nil
}

// DecodeDataURL returns the raw bytes behind a base64 data URL.
func (a FileAttachment) DecodeDataURL() ([]byte, error) {
	const marker = ";base64,"
	i := strings.Index(a.URL, marker)
	if !strings.HasPrefix(a.URL, "data:") || i < 0 {
		return nil, fmt.Errorf("attachment %s is not a base64 data URL", a.Name)
	}
	return base64.StdEncoding.DecodeString(a.URL[i+len(marker):])
}
