package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Config holds storage configuration
type Config struct {
	Type      string // only "local" is supported
	UploadDir string // root directory for stored files
}

// New builds the FileStore selected by cfg.Type.
func New(cfg Config) (FileStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

// NewKey returns a fresh storage key for a document of the given
// application. The original file extension is kept so downloads can be
// served with a sensible content type.
func NewKey(applicationID int32, documentType, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	return fmt.Sprintf("applications/%d/%s-%s%s", applicationID, sanitize(documentType), uuid.New().String(), ext)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "document"
	}
	return b.String()
}
