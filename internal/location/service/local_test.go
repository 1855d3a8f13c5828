package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHandlerDownloadReturnsBuffer(t *testing.T) {
	h := NewLocalHandler("db.pdbf", []byte("initial bytes"))
	data, err := h.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("initial bytes"), data)
}

func TestLocalHandlerUploadRecordsFileAction(t *testing.T) {
	h := NewLocalHandler("db.pdbf", nil)
	require.Nil(t, h.TakePendingAction())

	err := h.Upload(context.Background(), []byte("new bytes"))
	require.NoError(t, err)

	action := h.TakePendingAction()
	require.NotNil(t, action)
	assert.Equal(t, "db.pdbf", action.FileName)
	assert.Equal(t, []byte("new bytes"), action.Data)

	// consumed once
	assert.Nil(t, h.TakePendingAction())
}
