package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTooLarge    = errors.New("file too large")
	ErrUnsupported = errors.New("unsupported file type")
	ErrEmpty       = errors.New("empty file")
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Uploaded describes a stored image.
type Uploaded struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Size     int    `json:"size"`
	MimeType string `json:"mime_type"`
	Storage  string `json:"storage"`
}

type Service struct {
	store    Store
	maxBytes int64
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Store, maxBytes int64, log *zap.Logger) *Service {
	return &Service{store: store, maxBytes: maxBytes, log: log.Named("file"), now: time.Now}
}

// UploadImage sniffs the payload, rejects non-images and stores it under
// images/<year>/<month>/<uuid>.<ext>.
func (s *Service) UploadImage(ctx context.Context, r io.Reader) (*Uploaded, error) {
	payload, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(payload)) > s.maxBytes {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(payload)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mt.String())
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + mt.Extension()
	key := s.now().Format("images/2006/01/") + name
	url, err := s.store.Put(ctx, key, mt.String(), payload)
	if err != nil {
		return nil, err
	}
	s.log.Info("image uploaded", zap.String("storage", s.store.Name()), zap.String("key", key), zap.Int("size", len(payload)))
	return &Uploaded{URL: url, Name: name, Size: len(payload), MimeType: mt.String(), Storage: s.store.Name()}, nil
}
