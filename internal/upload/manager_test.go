package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

type memStore struct {
	files   map[string][]byte
	removed []string
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (s *memStore) Save(name string, src io.Reader) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	s.files[name] = data
	return "/uploads/" + name, nil
}

func (s *memStore) Remove(path string) error {
	s.removed = append(s.removed, path)
	return nil
}

func makeFileHeader(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.HTTPStatus
}

func TestManager_StoreFile_Valid(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, 5*1024*1024, zap.NewNop())

	path, err := mgr.StoreFile(makeFileHeader(t, "photo.PNG", "image/png", 1024), "avatar")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/avatar-"))
	assert.True(t, strings.HasSuffix(path, ".png"))
	assert.Len(t, store.files, 1)
}

func TestManager_StoreFile_TooLarge(t *testing.T) {
	mgr := NewManager(newMemStore(), 1024, zap.NewNop())

	_, err := mgr.StoreFile(makeFileHeader(t, "photo.png", "image/png", 2048), "avatar")
	require.Error(t, err)
	assert.Equal(t, 413, statusOf(t, err))
}

func TestManager_StoreFile_UnsupportedExtension(t *testing.T) {
	mgr := NewManager(newMemStore(), 5*1024*1024, zap.NewNop())

	_, err := mgr.StoreFile(makeFileHeader(t, "notes.txt", "text/plain", 10), "avatar")
	require.Error(t, err)
	assert.Equal(t, 415, statusOf(t, err))
}

func TestManager_StoreFile_MimeExtensionMismatch(t *testing.T) {
	mgr := NewManager(newMemStore(), 5*1024*1024, zap.NewNop())

	// Image extension with a non-image content type is still rejected.
	_, err := mgr.StoreFile(makeFileHeader(t, "sneaky.png", "application/octet-stream", 10), "avatar")
	require.Error(t, err)
	assert.Equal(t, 415, statusOf(t, err))
}

func TestManager_UniqueNames(t *testing.T) {
	store := newMemStore()
	mgr := NewManager(store, 5*1024*1024, zap.NewNop())

	first, err := mgr.StoreFile(makeFileHeader(t, "a.jpg", "image/jpeg", 10), "product")
	require.NoError(t, err)
	second, err := mgr.StoreFile(makeFileHeader(t, "a.jpg", "image/jpeg", 10), "product")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, store.files, 2)
}

func TestManager_RemoveFile_NeverFails(t *testing.T) {
	mgr := NewManager(newMemStore(), 1024, zap.NewNop())

	// No panic, no error surface for empty or unknown paths.
	mgr.RemoveFile("")
	mgr.RemoveFile("/uploads/never-stored.png")
}

func TestDiskStore_SaveAndRemove(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	store, err := NewDiskStore("public/uploads/avatars")
	require.NoError(t, err)

	path, err := store.Save("avatar-test.png", bytes.NewReader([]byte("data")))
	require.NoError(t, err)
	assert.Equal(t, "/public/uploads/avatars/avatar-test.png", path)

	onDisk := filepath.Join("public", "uploads", "avatars", "avatar-test.png")
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// Removing again is a no-op.
	require.NoError(t, store.Remove(path))
}
