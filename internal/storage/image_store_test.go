package storage_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bingo/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*storage.ImageStore, string) {
	t.Helper()
	dir := t.TempDir()
	return storage.NewImageStore(dir, "http://localhost:8080/uploads"), dir
}

func TestUpload_StoresFileAndReturnsURL(t *testing.T) {
	store, dir := newStore(t)
	userID := uuid.New()

	data := []byte("fake png bytes")
	result, err := store.Upload(context.Background(), data, "image/png", userID, storage.SlotHeader)
	require.NoError(t, err)

	// Путь выглядит как users/<uid>/boards/header_<id>.png
	assert.True(t, strings.HasPrefix(result.Path, "users/"+userID.String()+"/boards/header_"))
	assert.True(t, strings.HasSuffix(result.Path, ".png"))
	assert.Equal(t, "http://localhost:8080/uploads/"+result.Path, result.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.Path)))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, stored))
}

func TestUpload_JpegExtension(t *testing.T) {
	store, _ := newStore(t)

	result, err := store.Upload(context.Background(), []byte("x"), "image/jpeg", uuid.New(), storage.SlotCenter)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Path, ".jpg"))
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Upload(context.Background(), []byte("GIF89a"), "image/gif", uuid.New(), storage.SlotHeader)
	assert.ErrorIs(t, err, storage.ErrUnsupportedImageType)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	store, _ := newStore(t)

	big := make([]byte, storage.MaxImageSize+1)
	_, err := store.Upload(context.Background(), big, "image/png", uuid.New(), storage.SlotFooter)
	assert.ErrorIs(t, err, storage.ErrImageTooLarge)
}

func TestDelete_RemovesFile(t *testing.T) {
	store, dir := newStore(t)

	result, err := store.Upload(context.Background(), []byte("x"), "image/png", uuid.New(), storage.SlotHeader)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), result.Path))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(result.Path)))
	assert.True(t, os.IsNotExist(err))
}

func TestDelete_MissingFileIsNoOp(t *testing.T) {
	store, _ := newStore(t)

	err := store.Delete(context.Background(), "users/nobody/boards/header_x.png")
	assert.NoError(t, err)
}

func TestDelete_RejectsPathOutsideStore(t *testing.T) {
	store, _ := newStore(t)

	err := store.Delete(context.Background(), "../../../etc/passwd")
	assert.ErrorIs(t, err, storage.ErrInvalidImagePath)
}

func TestPathFromURL(t *testing.T) {
	store, _ := newStore(t)

	result, err := store.Upload(context.Background(), []byte("x"), "image/png", uuid.New(), storage.SlotHeader)
	require.NoError(t, err)

	assert.Equal(t, result.Path, store.PathFromURL(result.URL))
	// Чужие URL не распознаются
	assert.Empty(t, store.PathFromURL("https://cdn.example.com/foo.png"))
}
