package discount

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for discount files stored in AWS S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based discount loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-discount-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 discount loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load reads a discount file from S3 and returns a Set. The source is the
// full S3 key including any prefix.
func (l *s3Loader) Load(ctx context.Context, key string) (Set, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading discount file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to get discount object from S3")
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	set, err := parseCodes(ctx, result.Body, key)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to parse discount object")
		return nil, err
	}

	l.logger.Info().
		Str("key", key).
		Int("codes_loaded", set.Size()).
		Msg("discount file loaded from S3")

	return set, nil
}
