package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/utils"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinIOArchiver struct {
	client *minio.Client
	bucket string
}

func NewMinIOArchiver(opts Options) (*MinIOArchiver, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOArchiver{
		client: client,
		bucket: opts.Bucket,
	}, nil
}

// EnsureBucket creates the archive bucket when it does not exist yet.
func (m *MinIOArchiver) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// ObjectPath lays events out by the hour they were published: ads/YYYY/MM/DD/HH/<event_id>.json
func ObjectPath(msg *models.AdCreatedMessage) string {
	bucket := utils.GetHourBucket(msg.Timestamp)
	return fmt.Sprintf("ads/%d/%02d/%02d/%02d/%s.json",
		bucket.Year(),
		bucket.Month(),
		bucket.Day(),
		bucket.Hour(),
		msg.EventID,
	)
}

func (m *MinIOArchiver) Archive(ctx context.Context, msg *models.AdCreatedMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = m.client.PutObject(ctx, m.bucket, ObjectPath(msg), bytes.NewReader(jsonData), int64(len(jsonData)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload to minio: %w", err)
	}

	return nil
}
