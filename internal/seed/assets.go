package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"quickcart/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// productsDir is the sub-directory of the media root holding product images.
const productsDir = "products"

// AssetStore persists product images and returns the reference stored on the product.
type AssetStore interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// localAssetStore writes images below <root>/products.
type localAssetStore struct {
	root   string
	logger zerolog.Logger
}

// NewLocalAssetStore creates an asset store rooted at the media directory.
func NewLocalAssetStore(root string, logger zerolog.Logger) AssetStore {
	return &localAssetStore{
		root:   root,
		logger: logger.With().Str("component", "local-asset-store").Logger(),
	}
}

// Put copies r to <root>/products/<name>, replacing any existing file.
func (s *localAssetStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name = filepath.Base(name)
	dir := filepath.Join(s.root, productsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory %s: %w", dir, err)
	}

	dst := filepath.Join(dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", dst, err)
	}

	s.logger.Debug().Str("file", dst).Msg("image stored")

	return path.Join(productsDir, name), nil
}

// s3PutAPI is the subset of the S3 client used for uploads.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3AssetStore uploads images to an S3 bucket under a key prefix.
type s3AssetStore struct {
	client s3PutAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3AssetStore creates an S3-backed asset store using the default AWS credential chain.
func NewS3AssetStore(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (AssetStore, error) {
	logger = logger.With().Str("component", "s3-asset-store").Logger()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Msg("S3 asset store initialised")

	return newS3AssetStore(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3AssetStore(client s3PutAPI, bucket, prefix string, logger zerolog.Logger) *s3AssetStore {
	return &s3AssetStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Put uploads r as <prefix><name> and returns the object key.
func (s *s3AssetStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	key := s.prefix + path.Base(name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Debug().Str("bucket", s.bucket).Str("key", key).Msg("image uploaded")

	return key, nil
}

// fallbackAssetStore tries the primary store first and falls back to the local one.
type fallbackAssetStore struct {
	primary  AssetStore
	fallback AssetStore
	logger   zerolog.Logger
}

// NewFallbackAssetStore returns a store that writes to primary and, when that
// fails, to fallback. A nil primary uses fallback only.
func NewFallbackAssetStore(primary, fallback AssetStore, logger zerolog.Logger) AssetStore {
	return &fallbackAssetStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With().Str("component", "fallback-asset-store").Logger(),
	}
}

// Put stores r in the primary store. On failure r is rewound and written to the
// fallback store, which requires r to be an io.Seeker.
func (s *fallbackAssetStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if s.primary == nil {
		return s.fallback.Put(ctx, name, r)
	}

	seeker, ok := r.(io.Seeker)
	ref, err := s.primary.Put(ctx, name, r)
	if err == nil {
		return ref, nil
	}
	if !ok {
		return "", err
	}

	s.logger.Warn().
		Err(err).
		Str("name", name).
		Msg("failed to store image in primary store, falling back to local media")

	if _, serr := seeker.Seek(0, io.SeekStart); serr != nil {
		return "", fmt.Errorf("failed to rewind %s: %w", name, serr)
	}
	return s.fallback.Put(ctx, name, r)
}

// NewAssetStore builds the asset store described by the configuration: S3
// with a local fallback when S3 is enabled, otherwise the local media directory.
func NewAssetStore(ctx context.Context, s3Cfg config.S3Config, media config.MediaConfig, logger zerolog.Logger) (AssetStore, error) {
	local := NewLocalAssetStore(media.Root, logger)
	if !s3Cfg.Enabled {
		return local, nil
	}

	remote, err := NewS3AssetStore(ctx, s3Cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewFallbackAssetStore(remote, local, logger), nil
}
