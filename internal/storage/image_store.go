// Package storage implements the image upload boundary: a disk-backed file
// store that hands back a servable URL and a deletable path per upload.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize caps uploads at 5MB.
const MaxImageSize = 5 * 1024 * 1024

var (
	// ErrUnsupportedImageType is returned for anything but jpeg/png uploads.
	ErrUnsupportedImageType = errors.New("only JPG, JPEG and PNG files are allowed")

	// ErrImageTooLarge is returned when an upload exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("file size exceeds 5MB limit")

	// ErrUploadFailed wraps I/O failures while storing an image.
	ErrUploadFailed = errors.New("upload failed")

	// ErrInvalidImagePath is returned for paths outside the store root.
	ErrInvalidImagePath = errors.New("invalid image path")
)

// Slot names the board region an image is attached to.
type Slot string

const (
	SlotHeader Slot = "header"
	SlotFooter Slot = "footer"
	SlotCenter Slot = "center"
)

func (s Slot) Valid() bool {
	return s == SlotHeader || s == SlotFooter || s == SlotCenter
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
}

// UploadResult carries the displayable URL and the deletable storage path
// of a stored image.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type ImageStore struct {
	root    string
	baseURL string
}

// NewImageStore creates a store writing under root. Stored files are
// addressable as baseURL + "/" + path.
func NewImageStore(root, baseURL string) *ImageStore {
	return &ImageStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload validates and stores image bytes for the given user and slot. The
// returned path looks like users/<uid>/boards/<slot>_<id>.<ext>.
func (s *ImageStore) Upload(ctx context.Context, data []byte, contentType string, userID uuid.UUID, slot Slot) (*UploadResult, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImageType
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	if !slot.Valid() {
		return nil, fmt.Errorf("%w: unknown slot %q", ErrUploadFailed, slot)
	}

	rel := path.Join("users", userID.String(), "boards", fmt.Sprintf("%s_%s.%s", slot, uuid.New(), ext))
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return &UploadResult{
		URL:  s.baseURL + "/" + rel,
		Path: rel,
	}, nil
}

// Delete removes a previously uploaded image. Missing files are a no-op so
// callers can replace images without tracking whether the old one exists.
func (s *ImageStore) Delete(ctx context.Context, rel string) error {
	clean := path.Clean("/" + rel)[1:]
	if !strings.HasPrefix(clean, "users/") {
		return ErrInvalidImagePath
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PathFromURL recovers the storage path from a URL previously returned by
// Upload. It returns "" for URLs not produced by this store.
func (s *ImageStore) PathFromURL(url string) string {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return ""
	}
	return strings.TrimPrefix(url, s.baseURL+"/")
}
