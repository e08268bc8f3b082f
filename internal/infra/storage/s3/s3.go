package s3storage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

type Config struct {
	Bucket    string
	Endpoint  string // пусто = реальный AWS
	PathStyle bool   // MinIO/LocalStack
}

// Storage выдаёт пресайн-ссылки и листинги. Стоячие креды клиенту
// не уходят — только подписанные URL с вшитым сроком.
type Storage struct {
	logger  *log.Logger
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func New(awsCfg aws.Config, cfg Config, logger *log.Logger) *Storage {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &Storage{
		logger:  logger,
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		s.logger.Printf("head bucket %q: %v", s.bucket, err)
		return fmt.Errorf("head bucket: %w", err)
	}
	return nil
}

func (s *Storage) UploadURL(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		s.logger.Printf("presign put %q: %v", key, err)
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}

func (s *Storage) DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		s.logger.Printf("presign get %q: %v", key, err)
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

func (s *Storage) DeleteURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignDeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		s.logger.Printf("presign delete %q: %v", key, err)
		return "", fmt.Errorf("presign delete: %w", err)
	}
	return req.URL, nil
}

// List перечисляет объекты под префиксом; маркеры "папок" (ключи,
// оканчивающиеся на "/") отфильтровываются.
func (s *Storage) List(ctx context.Context, prefix string) ([]domain.ObjectInfo, error) {
	var out []domain.ObjectInfo

	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			s.logger.Printf("list %q: %v", prefix, err)
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			info := domain.ObjectInfo{Key: key, Size: aws.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			out = append(out, info)
		}
	}
	return out, nil
}
