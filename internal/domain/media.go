package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_media_provider.go -package mocks github.com/Notifuse/emailbuilder/internal/domain MediaProvider
//go:generate mockgen -destination mocks/mock_media_service.go -package mocks github.com/Notifuse/emailbuilder/internal/domain MediaService

// MediaAsset is an image offered by the file picker.
type MediaAsset struct {
	Name        string    `json:"name"`
	SizeBytes   int64     `json:"size_bytes"`
	DateAdded   time.Time `json:"date_added"`
	DownloadRef string    `json:"download_ref"`
}

// EmbeddedImage is a fetched asset encoded for inline use.
type EmbeddedImage struct {
	DataURI   string `json:"data_uri"`
	MIMEType  string `json:"mime_type"`
	SizeBytes int    `json:"size_bytes"`
}

// MediaProvider is the key-addressed blob store holding media assets.
type MediaProvider interface {
	ListImages(ctx context.Context) ([]MediaAsset, error)

	// FetchBytes returns *ErrMediaNotFound for unknown refs
	FetchBytes(ctx context.Context, downloadRef string) ([]byte, error)
}

// MediaService lists assets and embeds them as data URIs
type MediaService interface {
	ListImages(ctx context.Context) ([]MediaAsset, error)
	EmbedImage(ctx context.Context, downloadRef string) (*EmbeddedImage, error)
}
