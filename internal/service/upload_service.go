package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"

	"workdesk/api/internal/apperr"
	"workdesk/api/internal/config"
	"workdesk/api/internal/storage"
)

// UploadService moves multipart uploads into the object store and hands back
// keys. Blob writes are best-effort relative to the metadata they end up
// attached to; a dangling key is an accepted risk, a lost upload is not.
type UploadService struct {
	store *storage.ObjectStore
	cfg   config.UploadConfig
	log   zerolog.Logger
}

func NewUploadService(store *storage.ObjectStore, cfg config.UploadConfig, log zerolog.Logger) *UploadService {
	return &UploadService{store: store, cfg: cfg, log: log}
}

func (s *UploadService) SaveFile(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", fmt.Errorf("%w: missing file", apperr.ErrInvalidInput)
	}
	if s.cfg.MaxSizeBytes > 0 && header.Size > s.cfg.MaxSizeBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds cap of %d", apperr.ErrPayloadTooLarge, header.Size, s.cfg.MaxSizeBytes)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	key, err := s.store.Put(ctx, file, header.Size, header.Filename, contentType)
	if err != nil {
		return "", err
	}

	s.log.Debug().Str("key", key).Int64("size", header.Size).Msg("upload stored")
	return key, nil
}

func (s *UploadService) SaveFiles(ctx context.Context, headers []*multipart.FileHeader) ([]string, error) {
	keys := make([]string, 0, len(headers))
	for _, header := range headers {
		key, err := s.SaveFile(ctx, header)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
