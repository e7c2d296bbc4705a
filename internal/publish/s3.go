package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/specialistvlad/releasegrid/internal/orchestrator"
)

// ErrNoArchives is returned when an S3 upload is asked to publish nothing.
var ErrNoArchives = errors.New("no archives to upload")

// ObjectPutter is the part of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds the settings for S3 uploads.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // Optional custom endpoint (MinIO, LocalStack)
	Prefix   string
	// Name is the released package name, used as a key segment.
	Name string
}

// S3 uploads every archive of a release to
// s3://<bucket>/<prefix>/<name>/<version>/<file>.
type S3 struct {
	client ObjectPutter
	cfg    S3Config
}

// NewS3 builds a client from the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3WithClient(client, cfg), nil
}

// NewS3WithClient uses an existing client.
func NewS3WithClient(client ObjectPutter, cfg S3Config) *S3 {
	return &S3{client: client, cfg: cfg}
}

// Key returns the object key for an archive of version.
func (s *S3) Key(version, archive string) string {
	return path.Join(strings.Trim(s.cfg.Prefix, "/"), s.cfg.Name, version, filepath.Base(archive))
}

// Publish implements orchestrator.Publisher.
func (s *S3) Publish(ctx context.Context, r orchestrator.Release) error {
	if len(r.Archives) == 0 {
		return ErrNoArchives
	}
	logger := ctxlog.FromContext(ctx)
	for _, archive := range r.Archives {
		key := s.Key(r.Version, archive)
		if err := s.upload(ctx, archive, key); err != nil {
			return fmt.Errorf("s3 put %s failed: %w", key, err)
		}
		logger.Info("Archive uploaded.", "bucket", s.cfg.Bucket, "key", key)
	}
	return nil
}

func (s *S3) upload(ctx context.Context, archive, key string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("application/zip"),
	})
	return err
}
