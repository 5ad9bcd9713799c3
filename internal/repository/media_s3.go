package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/h2non/filetype"

	"github.com/Notifuse/emailbuilder/config"
	"github.com/Notifuse/emailbuilder/internal/domain"
)

// S3Client is the subset of the S3 API used by the media provider.
type S3Client interface {
	ListObjectsV2PagesWithContext(ctx aws.Context, input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

// NewS3Client creates a client for the configured bucket. A custom endpoint
// allows S3 compatible stores such as MinIO.
func NewS3Client(cfg config.StorageConfig) (*s3.S3, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return s3.New(sess), nil
}

type s3MediaProvider struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3MediaProvider lists and fetches images stored under prefix in bucket
func NewS3MediaProvider(client S3Client, bucket, prefix string) domain.MediaProvider {
	return &s3MediaProvider{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// ListImages returns the objects whose extension is a known image type,
// newest first.
func (p *s3MediaProvider) ListImages(ctx context.Context) ([]domain.MediaAsset, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(p.bucket),
	}
	if p.prefix != "" {
		input.Prefix = aws.String(p.prefix)
	}

	assets := []domain.MediaAsset{}
	err := p.client.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if !isImageKey(key) {
				continue
			}
			assets = append(assets, domain.MediaAsset{
				Name:        path.Base(key),
				SizeBytes:   aws.Int64Value(obj.Size),
				DateAdded:   aws.TimeValue(obj.LastModified),
				DownloadRef: key,
			})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].DateAdded.After(assets[j].DateAdded)
	})
	return assets, nil
}

// FetchBytes downloads the object stored under downloadRef
func (p *s3MediaProvider) FetchBytes(ctx context.Context, downloadRef string) ([]byte, error) {
	if p.prefix != "" && !strings.HasPrefix(downloadRef, p.prefix) {
		return nil, &domain.ErrMediaNotFound{Ref: downloadRef}
	}

	out, err := p.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(downloadRef),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, &domain.ErrMediaNotFound{Ref: downloadRef}
		}
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}
	return data, nil
}

func isImageKey(key string) bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(key)), ".")
	if ext == "" {
		return false
	}
	if ext == "jpeg" {
		ext = "jpg"
	}
	kind := filetype.GetType(ext)
	return kind != filetype.Unknown && kind.MIME.Type == "image"
}
