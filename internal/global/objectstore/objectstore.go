// Package objectstore 把学生照片、证书等文件上传到 S3 兼容存储并返回公开访问地址
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	appconfig "fest-judging-system/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Uploader 上传后返回公开 URL
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type Store struct {
	uploader *manager.Uploader
	cfg      appconfig.S3
}

var Default Uploader

func Init(ctx context.Context) error {
	s, err := New(ctx, appconfig.Get().S3)
	if err != nil {
		return err
	}
	Default = s
	return nil
}

func New(ctx context.Context, cfg appconfig.S3) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载 S3 配置失败: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Store{uploader: manager.NewUploader(client), cfg: cfg}, nil
}

// Key 生成对象 key：<prefix>/<kind>/<名字 slug>-<uuid><ext>
func Key(prefix, kind, name, ext string) string {
	filename := uuid.NewString() + strings.ToLower(ext)
	if s := slug.Make(name); s != "" {
		filename = s + "-" + filename
	}
	return strings.TrimLeft(path.Join(strings.Trim(prefix, "/"), kind, filename), "/")
}

func (s *Store) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if s.cfg.Bucket == "" {
		return "", fmt.Errorf("S3 bucket 未配置")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	// 大文件由 manager 自动分片上传
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传到 S3 失败: %w", err)
	}
	return s.PublicURL(key), nil
}

// PublicURL 访问地址，优先使用 BaseURL（CDN）
func (s *Store) PublicURL(key string) string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.cfg.Endpoint, "/")
	}
	if s.cfg.UsePathStyle {
		return base + "/" + s.cfg.Bucket + "/" + key
	}
	return base + "/" + key
}
