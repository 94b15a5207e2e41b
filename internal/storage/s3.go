package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"location-dedup/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ObjectStore is the subset of the MinIO client used by ReportStore.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// ReportStore archives duplicate reports in an S3-compatible bucket.
type ReportStore struct {
	client ObjectStore
	bucket string
	region string
}

// Options are the connection settings of the object store.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// NewReportStore connects to the MinIO endpoint in opts.
func NewReportStore(opts Options) (*ReportStore, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("storage: endpoint, access key, secret key and bucket are required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to create MinIO client: %w", err)
	}

	log.Info().Str("endpoint", opts.Endpoint).Str("bucket", opts.Bucket).Msg("connected to object store")
	return &ReportStore{client: client, bucket: opts.Bucket, region: opts.Region}, nil
}

// EnsureBucket creates the report bucket when it does not exist yet.
func (s *ReportStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("storage: failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// ReportKey is the object key of a report: reports/<country>/<report-id>.json.
func ReportKey(report *models.DuplicateReport) string {
	country := sanitizeKey(report.Candidate.Country)
	if country == "" {
		country = "unknown"
	}
	return fmt.Sprintf("reports/%s/%s.json", country, sanitizeKey(report.ID))
}

// StoreReport writes the report as JSON and returns its key. An existing object is never overwritten.
func (s *ReportStore) StoreReport(ctx context.Context, report *models.DuplicateReport) (string, error) {
	key := ReportKey(report)

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		log.Debug().Str("key", key).Msg("report already archived, skipping write")
		return key, nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return "", fmt.Errorf("storage: failed to check for existing object: %w", err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("storage: failed to marshal report: %w", err)
	}

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("storage: failed to store report: %w", err)
	}

	log.Debug().Str("key", key).Msg("report archived")
	return key, nil
}

// GetReport reads a report back by its key.
func (s *ReportStore) GetReport(ctx context.Context, key string) (*models.DuplicateReport, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to get object: %w", err)
	}
	defer object.Close()

	var report models.DuplicateReport
	if err := json.NewDecoder(object).Decode(&report); err != nil {
		return nil, fmt.Errorf("storage: failed to decode report %s: %w", key, err)
	}
	return &report, nil
}

// sanitizeKey lower-cases s and replaces everything but letters, digits, '-' and '_' with a hyphen.
func sanitizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, s)
}
