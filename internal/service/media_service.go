package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/h2non/filetype"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/tracing"
)

// MediaServiceConfig bounds the embed cache and the accepted asset size.
type MediaServiceConfig struct {
	CacheSize     int
	CacheTTL      time.Duration
	MaxEmbedBytes int64
}

// MediaService lists the images of the media provider and turns them into
// data URIs. Concurrent embeds of the same ref share one fetch.
type MediaService struct {
	provider domain.MediaProvider
	logger   logger.Logger
	maxBytes int64
	cache    *expirable.LRU[string, *domain.EmbeddedImage]
	group    singleflight.Group
}

// NewMediaService creates the service. provider may be nil when no storage
// is configured; every call then returns domain.ErrMediaUnavailable.
func NewMediaService(provider domain.MediaProvider, logger logger.Logger, cfg MediaServiceConfig) *MediaService {
	size := cfg.CacheSize
	if size <= 0 {
		size = 1
	}
	return &MediaService{
		provider: provider,
		logger:   logger,
		maxBytes: cfg.MaxEmbedBytes,
		cache:    expirable.NewLRU[string, *domain.EmbeddedImage](size, nil, cfg.CacheTTL),
	}
}

func (s *MediaService) ListImages(ctx context.Context) (assets []domain.MediaAsset, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "MediaService", "ListImages")
	defer func() { tracing.EndSpan(span, err) }()

	if s.provider == nil {
		return nil, domain.ErrMediaUnavailable
	}

	assets, err = s.provider.ListImages(ctx)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to list media: %v", err))
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	tracing.AddAttribute(ctx, "media.count", len(assets))
	return assets, nil
}

// EmbedImage fetches the asset behind downloadRef and encodes it as a
// base64 data URI with its sniffed MIME type.
func (s *MediaService) EmbedImage(ctx context.Context, downloadRef string) (img *domain.EmbeddedImage, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "MediaService", "EmbedImage")
	defer func() { tracing.EndSpan(span, err) }()
	tracing.AddAttribute(ctx, "media.ref", downloadRef)

	if s.provider == nil {
		return nil, domain.ErrMediaUnavailable
	}
	if downloadRef == "" {
		return nil, domain.NewValidationError("download_ref is required")
	}

	if cached, ok := s.cache.Get(downloadRef); ok {
		tracing.AddAttribute(ctx, "media.cached", true)
		return cached, nil
	}

	v, err, _ := s.group.Do(downloadRef, func() (interface{}, error) {
		return s.fetch(ctx, downloadRef)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.EmbeddedImage), nil
}

func (s *MediaService) fetch(ctx context.Context, downloadRef string) (*domain.EmbeddedImage, error) {
	data, err := s.provider.FetchBytes(ctx, downloadRef)
	if err != nil {
		if _, ok := err.(*domain.ErrMediaNotFound); ok {
			return nil, err
		}
		s.logger.WithField("download_ref", downloadRef).Error(fmt.Sprintf("Failed to fetch media: %v", err))
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}

	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, domain.NewValidationError(fmt.Sprintf("media asset is %d bytes, the limit is %d", len(data), s.maxBytes))
	}
	if !filetype.IsImage(data) {
		return nil, domain.ErrUnsupportedMedia
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("failed to detect media type: %w", err)
	}

	img := &domain.EmbeddedImage{
		DataURI:   "data:" + kind.MIME.Value + ";base64," + base64.StdEncoding.EncodeToString(data),
		MIMEType:  kind.MIME.Value,
		SizeBytes: len(data),
	}
	s.cache.Add(downloadRef, img)
	return img, nil
}
