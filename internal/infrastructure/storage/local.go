package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

const PublicPrefix = "/uploads/"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

type LocalStorage struct {
	dir     string
	maxSize int64
}

func CreateLocalStorage(dir string, maxSize int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &LocalStorage{dir: dir, maxSize: maxSize}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

// SaveImage stores an uploaded image and returns its public path.
func (s *LocalStorage) SaveImage(ctx context.Context, fh *multipart.FileHeader) (url string, err error) {
	if fh.Size > s.maxSize {
		return "", errs.ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return "", errs.ErrNotAnImage
	}

	name := ulid.Make().String() + "-" + unsafeFileChars.ReplaceAllString(filepath.Base(fh.Filename), "_")

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "SaveImage").Msg("")
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head[:n]), io.LimitReader(src, s.maxSize)))
	if err != nil || written > s.maxSize {
		os.Remove(dst.Name())
		if err == nil {
			err = errs.ErrFileTooLarge
		}
		return "", err
	}

	return PublicPrefix + name, nil
}

// DeleteImage removes a file previously returned by SaveImage. Unknown paths are ignored.
func (s *LocalStorage) DeleteImage(ctx context.Context, url string) {
	name, ok := strings.CutPrefix(url, PublicPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteImage").Msg("")
	}
}
