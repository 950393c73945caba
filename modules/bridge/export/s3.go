package export

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
)

const parquetContentType = "application/vnd.apache.parquet"

type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
}

func NewS3Uploader(ctx context.Context, conf Config) (*S3Uploader, error) {
	if conf.Bucket == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "export bucket is required")
	}
	opts := make([]func(*config.LoadOptions) error, 0, 1)
	if conf.Region != "" {
		opts = append(opts, config.WithRegion(conf.Region))
	}
	sdkConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}

	s3client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Uploader{
		uploader: manager.NewUploader(s3client),
		bucket:   conf.Bucket,
	}, nil
}

// Upload stores data under key and returns the object location.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte) (string, error) {
	output, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(parquetContentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload s3://%s/%s", u.bucket, key)
	}
	logger.InfoContext(ctx, "Uploaded burn log snapshot",
		slogx.String("bucket", u.bucket),
		slogx.String("key", key),
		slogx.Int("size", len(data)),
	)
	return output.Location, nil
}
