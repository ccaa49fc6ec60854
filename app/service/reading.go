package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-glucose/app/dto"
	"github.com/vibast-solutions/ms-go-glucose/app/entity"
	"github.com/vibast-solutions/ms-go-glucose/app/localtime"
	"github.com/vibast-solutions/ms-go-glucose/app/storage"
)

var (
	ErrInvalidGlucoseValue = errors.New("invalid glucose value")
	ErrInvalidMeasuredAt   = errors.New("invalid measured_at")
	ErrPhotoUpload         = errors.New("photo upload failed")
	ErrPhotoTooLarge       = errors.New("photo too large")
	ErrReadingNotFound     = errors.New("reading not found")
)

const (
	DefaultReadingsLimit = 50
	MaxReadingsLimit     = 500
)

type ReadingRepository interface {
	Create(ctx context.Context, reading *entity.Reading) error
	FindByID(ctx context.Context, id string) (*entity.Reading, error)
	List(ctx context.Context, limit int) ([]*entity.Reading, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// GlucoseDetector reads a meter photo. ok=false means the value was unreadable.
type GlucoseDetector interface {
	DetectGlucoseValue(ctx context.Context, image []byte, mimeType string) (int, bool, error)
}

type ReadingOptions struct {
	DefaultLimit  int
	MaxLimit      int
	MaxPhotoBytes int64
}

type PhotoUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

type CreateReadingInput struct {
	GlucoseValue string
	MeasuredAt   string
	Notes        string
	Photo        *PhotoUpload
}

type ReadingService struct {
	repo     ReadingRepository
	photos   storage.PhotoStore
	detector GlucoseDetector
	opts     ReadingOptions
	now      func() time.Time
}

// NewReadingService wires the record store and its collaborators. photos and detector
// may be nil; photo uploads then fail and detection yields no suggestion.
func NewReadingService(repo ReadingRepository, photos storage.PhotoStore, detector GlucoseDetector, opts ReadingOptions) *ReadingService {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultReadingsLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxReadingsLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}

	return &ReadingService{
		repo:     repo,
		photos:   photos,
		detector: detector,
		opts:     opts,
		now:      time.Now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (s *ReadingService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ReadingService) Create(ctx context.Context, in CreateReadingInput) (*entity.Reading, error) {
	value, err := ParseGlucoseValue(in.GlucoseValue)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	measuredAt, err := ResolveMeasuredAt(in.MeasuredAt, now)
	if err != nil {
		return nil, err
	}

	reading := &entity.Reading{
		ID:           uuid.NewString(),
		GlucoseValue: value,
		Unit:         entity.GlucoseUnit,
		MeasuredAt:   measuredAt,
		CreatedAt:    now,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		reading.Notes = sql.NullString{String: notes, Valid: true}
	}

	photoName := ""
	if in.Photo != nil && len(in.Photo.Data) > 0 {
		name, url, err := s.uploadPhoto(ctx, in.Photo, now)
		if err != nil {
			return nil, err
		}
		photoName = name
		reading.PhotoURL = sql.NullString{String: url, Valid: true}
	}

	if err := s.repo.Create(ctx, reading); err != nil {
		if photoName != "" {
			s.removePhoto(ctx, photoName)
		}
		return nil, err
	}

	return reading, nil
}

func (s *ReadingService) uploadPhoto(ctx context.Context, photo *PhotoUpload, now time.Time) (string, string, error) {
	if s.photos == nil {
		return "", "", fmt.Errorf("%w: no photo store configured", ErrPhotoUpload)
	}
	if s.opts.MaxPhotoBytes > 0 && int64(len(photo.Data)) > s.opts.MaxPhotoBytes {
		return "", "", ErrPhotoTooLarge
	}

	name := storage.NewPhotoFileName(photo.FileName, now)
	url, err := s.photos.Upload(ctx, name, photo.ContentType, photo.Data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrPhotoUpload, err)
	}
	return name, url, nil
}

// Delete removes the reading and then, best effort, its photo.
func (s *ReadingService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrReadingNotFound
	}

	reading, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if reading == nil {
		return ErrReadingNotFound
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReadingNotFound
	}

	// Best effort once the row is gone.
	if reading.PhotoURL.Valid {
		if name := storage.FileNameFromURL(reading.PhotoURL.String); name != "" {
			s.removePhoto(ctx, name)
		}
	}
	return nil
}

func (s *ReadingService) removePhoto(ctx context.Context, name string) {
	if s.photos == nil {
		return
	}
	if err := s.photos.Delete(ctx, name); err != nil {
		logrus.WithError(err).WithField("photo", name).Warn("Failed to delete reading photo")
	}
}

// List returns the newest readings first. A non-positive limit selects the default and
// larger limits are clamped.
func (s *ReadingService) List(ctx context.Context, limit int) ([]*entity.Reading, error) {
	return s.repo.List(ctx, s.NormalizeLimit(limit))
}

func (s *ReadingService) NormalizeLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

func (s *ReadingService) Dashboard(ctx context.Context, limit int) (*dto.Dashboard, error) {
	readings, err := s.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &dto.Dashboard{
		Readings: readings,
		Summary:  Summarize(readings),
		Chart:    ChartPoints(readings),
		History:  GroupByMonthAndDay(readings),
	}, nil
}

func (s *ReadingService) DetectionEnabled() bool {
	return s.detector != nil
}

// DetectGlucoseValue returns nil when no value could be suggested. Detector failures are
// logged and treated the same way.
func (s *ReadingService) DetectGlucoseValue(ctx context.Context, image []byte, mimeType string) *int {
	if s.detector == nil || len(image) == 0 {
		return nil
	}
	if s.opts.MaxPhotoBytes > 0 && int64(len(image)) > s.opts.MaxPhotoBytes {
		return nil
	}

	value, ok, err := s.detector.DetectGlucoseValue(ctx, image, mimeType)
	if err != nil {
		logrus.WithError(err).Error("Glucose value detection failed")
		return nil
	}
	if !ok {
		return nil
	}
	return &value
}

// ParseLimit reads a limit query value; anything that is not an integer yields 0.
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return limit
}

func ParseGlucoseValue(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, ErrInvalidGlucoseValue
	}
	return value, nil
}

// ResolveMeasuredAt accepts Guayaquil local input (YYYY-MM-DDTHH:mm[:ss]) or an ISO-8601
// instant. Blank input means now.
func ResolveMeasuredAt(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.UTC(), nil
	}
	if t, ok := localtime.ParseLocalInput(raw); ok {
		return t, nil
	}
	if t, ok := localtime.ParseInstant(raw); ok {
		return t, nil
	}
	return time.Time{}, ErrInvalidMeasuredAt
}
