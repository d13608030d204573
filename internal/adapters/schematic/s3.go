package schematic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the subset of *s3.Client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds the bucket location. Credentials fall back to the default
// AWS chain when no static keys are given.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // optional; set for MinIO and other S3-compatible servers
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store implements ports.SchematicStore on an S3 bucket.
type S3Store struct {
	api    ObjectAPI
	bucket string
	prefix string
}

// NewS3Store builds an S3 client from cfg.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket required", domain.ErrInvalidArgument)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3StoreFromAPI(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3StoreFromAPI wraps an existing client.
func NewS3StoreFromAPI(api ObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{api: api, bucket: bucket, prefix: prefix}
}

// Key returns the object key of a schematic.
func (s *S3Store) Key(name string) string {
	return path.Join(s.prefix, name+Ext)
}

// Save uploads the schematic. A PutObject either fully replaces the object
// or leaves the previous one in place.
func (s *S3Store) Save(ctx context.Context, name string, clip *domain.Clipboard) error {
	var buf bytes.Buffer
	if err := Encode(&buf, clip); err != nil {
		return domain.Collaborator(domain.PhaseSave, err)
	}
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(s.Key(name)),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return domain.Collaborator(domain.PhaseSave, fmt.Errorf("put %s: %w", s.Key(name), err))
	}
	return nil
}

// Load downloads the schematic saved under name.
func (s *S3Store) Load(ctx context.Context, name string) (*domain.Clipboard, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(name)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, domain.Collaborator(domain.PhaseLoad, fmt.Errorf("schematic %q not found", name))
		}
		return nil, domain.Collaborator(domain.PhaseLoad, fmt.Errorf("get %s: %w", s.Key(name), err))
	}
	defer out.Body.Close()

	clip, err := Decode(out.Body)
	if err != nil {
		return nil, domain.Collaborator(domain.PhaseLoad, fmt.Errorf("%s: %w", s.Key(name), err))
	}
	return clip, nil
}
