package image

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/easy-read/core/internal/config"
	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/modules/storage/blob"
	"github.com/easy-read/core/internal/pkg/taskqueue"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskTypeImageGC names the janitor task that deletes an abandoned upload.
const TaskTypeImageGC = "image_gc"

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrExtensionMismatch = errors.New("file extension does not match image content")
	ErrTooLarge          = errors.New("image exceeds the upload size limit")
)

// sniffable maps detected MIME types to canonical extensions. Detection runs
// on file content; the client-supplied filename and Content-Type are never
// trusted.
var sniffable = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

type gcPayload struct {
	ImageID string `json:"image_id"`
}

type Service struct {
	db     *gorm.DB
	store  *blob.Store
	queue  *taskqueue.Service
	cfg    *config.AppConfig
	logger *zap.Logger
}

func NewService(db *gorm.DB, store *blob.Store, queue *taskqueue.Service, cfg *config.AppConfig, logger *zap.Logger) *Service {
	return &Service{db: db, store: store, queue: queue, cfg: cfg, logger: logger}
}

// Sniff validates payload content against the allowed formats and returns the
// detected extension.
func (s *Service) Sniff(payload []byte) (string, error) {
	contentType := http.DetectContentType(payload)
	ext, ok := sniffable[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}
	for _, allowed := range s.cfg.Upload.AllowedFormats {
		if strings.EqualFold(allowed, ext) {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
}

// Upload validates and stores an image, records it unused, and schedules the
// janitor to reclaim it if no article claims it within the grace period.
func (s *Service) Upload(ctx context.Context, userID, filename string, payload []byte) (*models.ImageModel, error) {
	if int64(len(payload)) > s.cfg.Upload.MaxBytes {
		return nil, ErrTooLarge
	}
	ext, err := s.Sniff(payload)
	if err != nil {
		return nil, err
	}
	// A .jpg payload that sniffs as png is lying about its format.
	if !extensionMatches(filename, ext) {
		return nil, ErrExtensionMismatch
	}

	key := fmt.Sprintf("%s-%s.%s", userID, uuid.NewString(), ext)
	src, err := s.store.Upload(ctx, key, payload, "image/"+normalizeExt(ext))
	if err != nil {
		return nil, err
	}

	img := models.ImageModel{Src: src, Alt: strings.TrimSpace(path.Base(filename))}
	if err := s.db.Create(&img).Error; err != nil {
		return nil, err
	}

	grace := time.Duration(s.cfg.Upload.GCGraceHours) * time.Hour
	_, err = s.queue.Enqueue(ctx, TaskTypeImageGC, gcPayload{ImageID: img.ID}, "image:"+img.ID, time.Now().Add(grace))
	if err != nil {
		// The interval sweep re-enqueues stale uploads, so a queue hiccup
		// here is not fatal.
		s.logger.Warn("failed to schedule image gc", zap.String("image_id", img.ID), zap.Error(err))
	}

	s.logger.Info("image uploaded",
		zap.String("image_id", img.ID),
		zap.String("key", key),
		zap.Int("bytes", len(payload)))
	return &img, nil
}

// DeleteWithBlob removes the image row and its stored object.
func (s *Service) DeleteWithBlob(ctx context.Context, imageID string) error {
	var img models.ImageModel
	if err := s.db.First(&img, "id = ?", imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := s.store.Delete(ctx, blob.KeyFromSrc(img.Src)); err != nil {
		return err
	}
	return s.db.Delete(&img).Error
}

// Collect runs one janitor task: delete the image if it is still unused.
func (s *Service) Collect(ctx context.Context, imageID string) error {
	var img models.ImageModel
	err := s.db.First(&img, "id = ?", imageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if img.Used {
		return nil
	}
	s.logger.Info("collecting abandoned upload", zap.String("image_id", img.ID))
	return s.DeleteWithBlob(ctx, img.ID)
}

// SweepStale re-enqueues gc tasks for unused images older than the grace
// period. It backstops uploads whose scheduled task was lost.
func (s *Service) SweepStale(ctx context.Context) error {
	grace := time.Duration(s.cfg.Upload.GCGraceHours) * time.Hour
	cutoff := time.Now().Add(-grace)

	var stale []models.ImageModel
	err := s.db.Where("used = ? AND created_at < ?", false, cutoff).
		Limit(200).Find(&stale).Error
	if err != nil {
		return err
	}
	for _, img := range stale {
		_, err := s.queue.Enqueue(ctx, TaskTypeImageGC, gcPayload{ImageID: img.ID}, "image:"+img.ID, time.Now())
		if err != nil {
			return err
		}
	}
	if len(stale) > 0 {
		s.logger.Info("re-enqueued stale uploads", zap.Int("count", len(stale)))
	}
	return nil
}

// extensionMatches reports whether the client-declared file extension agrees
// with the sniffed format. jpg and jpeg name the same format; a missing or
// unknown extension never matches.
func extensionMatches(filename, sniffed string) bool {
	declared := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if declared == "" {
		return false
	}
	return normalizeExt(declared) == normalizeExt(sniffed)
}

func normalizeExt(ext string) string {
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}
