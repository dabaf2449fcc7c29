// Package storage はS3互換オブジェクトストレージへのアップロードを提供する。
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API はアップロードに必要なS3クライアント操作のインターフェース。
// *s3.Clientの部分集合として定義し、テストではモックに差し替える。
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config はS3クライアント生成に必要な設定。
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// NewS3Client は静的クレデンシャルでS3クライアントを生成する。
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg), nil
}

// Uploader はバイト列をバケットにアップロードし、公開URLを返す。
type Uploader struct {
	client S3API
	bucket string
	region string
	now    func() time.Time
}

// NewUploader はUploaderを生成する。
func NewUploader(client S3API, bucket, region string) *Uploader {
	return &Uploader{
		client: client,
		bucket: bucket,
		region: region,
		now:    time.Now,
	}
}

// ObjectKey はアップロード用のオブジェクトキーを生成する。
// 形式は <エポックミリ秒>_<元ファイル名>。
// 同一ミリ秒に同名ファイルが来た場合は衝突するが、許容されたリスクとして扱う。
func (u *Uploader) ObjectKey(filename string) string {
	return fmt.Sprintf("%d_%s", u.now().UnixMilli(), filename)
}

// Upload はバイト列を指定キーでアップロードし、公開URLを返す。
// ストレージ側のエラーはそのまま伝播する（リトライなし）。
func (u *Uploader) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, u.bucket, err)
	}

	return u.URLFor(key), nil
}

// URLFor はキーに対応する公開URLを組み立てる。
func (u *Uploader) URLFor(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
