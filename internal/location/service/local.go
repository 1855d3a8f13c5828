// Package service implements the two Location Handler variants: a Local
// handler backed by a caller-supplied in-memory buffer, and a QS3 handler
// backed by a signed remote object store bucket.
package service

import (
	"context"

	"github.com/go-pman/pman/internal/location/domain"
)

// LocalHandler holds a caller-supplied buffer for download, and records the
// most recent upload as a pending domain.FileAction instead of writing to
// disk itself — the driver decides when and where to persist it.
type LocalHandler struct {
	fileName string
	buffer   []byte
	pending  *domain.FileAction
}

// NewLocalHandler wraps an existing buffer (the bytes already read from, or
// about to be written to, fileName).
func NewLocalHandler(fileName string, buffer []byte) *LocalHandler {
	return &LocalHandler{fileName: fileName, buffer: buffer}
}

// Download implements domain.Handler.
func (h *LocalHandler) Download(_ context.Context) ([]byte, error) {
	return h.buffer, nil
}

// Upload implements domain.Handler.
func (h *LocalHandler) Upload(_ context.Context, data []byte) error {
	h.buffer = data
	h.pending = &domain.FileAction{FileName: h.fileName, Data: data}
	return nil
}

// TakePendingAction returns and clears the FileAction recorded by the last
// Upload, or nil if nothing is pending.
func (h *LocalHandler) TakePendingAction() *domain.FileAction {
	action := h.pending
	h.pending = nil
	return action
}
