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
	"github.com/fitcity/fitcity-backend/pkg/logger"
)

const backupContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// S3Storage uploads signup export workbooks to the backup bucket.
type S3Storage struct {
	client *s3.Client
	bucket string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey string) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return &S3Storage{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}
}

// UploadBackup stores one workbook under backups/, keyed by date, and
// returns the object key. Re-running a backup on the same day
// overwrites that day's object.
func (s *S3Storage) UploadBackup(ctx context.Context, data []byte, when time.Time) (string, error) {
	key := fmt.Sprintf("backups/inschrijvingen-%s.xlsx", when.Format("2006-01-02"))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(backupContentType),
	})
	if err != nil {
		logger.Error("Failed to upload backup to S3", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	logger.Info("Backup uploaded", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"bytes":  len(data),
	})
	return key, nil
}
