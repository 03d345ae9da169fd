package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["image"][0]
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	store, err := CreateLocalStorage(dir, 1024)
	require.NoError(t, err)

	url, err := store.SaveImage(context.Background(), fileHeader(t, "green apple.png", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, PublicPrefix))
	assert.True(t, strings.HasSuffix(url, "-green_apple.png"))

	saved, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, PublicPrefix)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, saved)

	store.DeleteImage(context.Background(), url)
	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(url, PublicPrefix)))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	store, err := CreateLocalStorage(t.TempDir(), 1024)
	require.NoError(t, err)

	_, err = store.SaveImage(context.Background(), fileHeader(t, "notes.txt", []byte("just some text")))
	assert.ErrorIs(t, err, errs.ErrNotAnImage)
}

func TestSaveImageRejectsLargeFiles(t *testing.T) {
	store, err := CreateLocalStorage(t.TempDir(), 16)
	require.NoError(t, err)

	_, err = store.SaveImage(context.Background(), fileHeader(t, "big.png", pngBytes))
	assert.ErrorIs(t, err, errs.ErrFileTooLarge)
}
