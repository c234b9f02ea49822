// Package upload implements the image upload policy and file lifecycle shared
// by avatars and product images: size ceiling, type allow-list,
// collision-resistant naming, and best-effort removal of replaced files.
package upload

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/supplier-service/internal/observability"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// Manager validates incoming files against the upload policy and drives the
// backing store.
type Manager struct {
	store   Store
	maxSize int64
	logger  *zap.Logger
}

// NewManager builds a manager with a fixed size ceiling.
func NewManager(store Store, maxSize int64, logger *zap.Logger) *Manager {
	return &Manager{store: store, maxSize: maxSize, logger: logger}
}

// StoreFile validates the upload and persists it under a generated name,
// returning the stored public path.
func (m *Manager) StoreFile(fh *multipart.FileHeader, prefix string) (string, error) {
	if err := m.validate(fh); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	defer src.Close()

	path, err := m.store.Save(generateName(prefix, fh.Filename), src)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return path, nil
}

// RemoveFile deletes a superseded file. Failure is logged, never surfaced: a
// stray file on disk must not fail the request that replaced it.
func (m *Manager) RemoveFile(path string) {
	if path == "" {
		return
	}
	if err := m.store.Remove(path); err != nil {
		m.logger.Warn("failed to remove stored file",
			zap.String("path", path), zap.Error(err))
	}
}

func (m *Manager) validate(fh *multipart.FileHeader) error {
	if fh.Size > m.maxSize {
		observability.UploadsRejectedTotal.WithLabelValues("too_large").Inc()
		return apperrors.NewPayloadTooLarge(
			fmt.Sprintf("file exceeds %d bytes", m.maxSize))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	_, extOK := allowedExtensions[ext]
	_, mimeOK := allowedMimeTypes[fh.Header.Get("Content-Type")]
	if !extOK || !mimeOK {
		observability.UploadsRejectedTotal.WithLabelValues("unsupported_type").Inc()
		return apperrors.NewUnsupportedMediaType("only jpeg, png and gif images are allowed")
	}
	return nil
}

// generateName produces a collision-resistant filename keeping the original
// extension, e.g. "avatar-1712345678901-1a2b3c4d.png".
func generateName(prefix, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%d-%s%s", prefix, time.Now().UnixMilli(), suffix, ext)
}
