// Package media stores uploaded files on local disk and records them in
// the "media" table.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/id"
	"github.com/blich-studio/cms/internal/logger"
	"github.com/blich-studio/cms/internal/model"
)

var folderPattern = regexp.MustCompile(`^[a-z0-9_-]+(/[a-z0-9_-]+)*$`)

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true, ".avif": true,
	".mp4": true, ".webm": true, ".pdf": true,
}

type Options struct {
	Root     string
	BaseURL  string
	MaxBytes int64
}

type Service struct {
	store *Store
	opts  Options
	now   func() time.Time
	newID func() int64
}

func NewService(store *Store, opts Options) *Service {
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	return &Service{store: store, opts: opts, now: time.Now, newID: id.New}
}

func (s *Service) MaxBytes() int64 {
	return s.opts.MaxBytes
}

// Upload describes one received file.
type Upload struct {
	Folder       string
	OriginalName string
	ContentType  string
	Size         int64
	Body         io.Reader
}

// Save writes the upload to <root>/<folder>/<id><ext> and records it. The
// file is removed again when the row cannot be written.
func (s *Service) Save(ctx context.Context, up Upload) (*model.MediaFile, error) {
	log := logger.FromContext(ctx)

	folder := strings.Trim(strings.ToLower(up.Folder), "/")
	if folder != "" && !folderPattern.MatchString(folder) {
		return nil, apperr.ValidationField("folder", "Folder may only contain lowercase letters, digits, dashes and slashes")
	}
	if up.Size > s.opts.MaxBytes {
		return nil, apperr.ValidationField("file", fmt.Sprintf("File must be at most %d bytes", s.opts.MaxBytes))
	}

	ext := strings.ToLower(filepath.Ext(up.OriginalName))
	if !allowedExt[ext] {
		return nil, apperr.ValidationField("file", "File type is not allowed")
	}

	fileID := s.newID()
	stored := strconv.FormatInt(fileID, 10) + ext
	rel := path.Join(folder, stored)
	dst := filepath.Join(s.opts.Root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	written, err := writeFile(dst, up.Body, s.opts.MaxBytes)
	if err != nil {
		return nil, err
	}

	f := &model.MediaFile{
		ID:           fileID,
		Folder:       folder,
		OriginalName: filepath.Base(up.OriginalName),
		StoredName:   stored,
		ContentType:  up.ContentType,
		Size:         written,
		URL:          s.opts.BaseURL + "/" + rel,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Create(ctx, f); err != nil {
		_ = os.Remove(dst)
		return nil, apperr.Database("Failed to save media file", err)
	}

	log.Infow("media uploaded", "id", f.ID, "path", rel, "size", written)

	return f, nil
}

var errTooLarge = errors.New("file too large")

func writeFile(dst string, body io.Reader, limit int64) (int64, error) {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create media file: %w", err)
	}

	n, err := io.Copy(out, io.LimitReader(body, limit+1))
	if err == nil && n > limit {
		err = errTooLarge
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		if errors.Is(err, errTooLarge) {
			return 0, apperr.ValidationField("file", fmt.Sprintf("File must be at most %d bytes", limit))
		}
		return 0, fmt.Errorf("write media file: %w", err)
	}

	return n, nil
}

func (s *Service) List(ctx context.Context, folder string) ([]*model.MediaFile, error) {
	files, err := s.store.List(ctx, strings.Trim(strings.ToLower(folder), "/"))
	if err != nil {
		return nil, apperr.Database("Failed to fetch media", err)
	}
	return files, nil
}

// Delete removes the row first and then the file. A file that is already
// gone is not an error.
func (s *Service) Delete(ctx context.Context, fileID int64) error {
	f, err := s.store.Get(ctx, fileID)
	if err != nil {
		return classify(err, "Failed to delete media file")
	}
	if err := s.store.Delete(ctx, fileID); err != nil {
		return classify(err, "Failed to delete media file")
	}

	p := filepath.Join(s.opts.Root, filepath.FromSlash(path.Join(f.Folder, f.StoredName)))
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).Warnw("remove media file", "path", p, "error", err)
	}

	logger.FromContext(ctx).Infow("media deleted", "id", fileID)

	return nil
}

func classify(err error, message string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Media file")
	}
	return apperr.Database(message, err)
}
