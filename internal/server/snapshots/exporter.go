// Package snapshots writes point-in-time account listings to S3-compatible
// object storage.
package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	sc "github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// objectPutter is the subset of *s3.Client used here.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// AccountLister supplies the accounts to export.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

// Exporter is what transports depend on.
type Exporter interface {
	Export(ctx context.Context) (string, error)
}

// Snapshot is the stored document.
type Snapshot struct {
	TakenAt  time.Time            `json:"takenAt"`
	Count    int                  `json:"count"`
	Accounts []models.AccountView `json:"accounts"`
}

type S3Exporter struct {
	lister AccountLister
	config *sc.Config
	clock  clockwork.Clock
	logger logging.Logger
}

func NewS3Exporter(lister AccountLister, cfg *sc.Config, clock clockwork.Clock, l logging.Logger) *S3Exporter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &S3Exporter{lister: lister, config: cfg, clock: clock, logger: l.With("module", "snapshots")}
}

// ObjectKey places a snapshot under snapshots/YYYY/MM/DD/<uuid>.json.
func ObjectKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("snapshots/%04d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), uuid.New())
}

func (e *S3Exporter) client(ctx context.Context) (objectPutter, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(e.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.config.S3RootUser,
			e.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(e.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export uploads the current account listing and returns its object key.
func (e *S3Exporter) Export(ctx context.Context) (string, error) {
	list, err := e.lister.ListAccounts(ctx)
	if err != nil {
		return "", err
	}

	now := e.clock.Now()
	body, err := json.Marshal(Snapshot{
		TakenAt:  now.UTC(),
		Count:    len(list),
		Accounts: models.Views(list),
	})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	client, err := e.client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 config: %w", err)
	}

	key := ObjectKey(now)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put snapshot: %w", err)
	}

	e.logger.Info(ctx, "snapshot exported", "key", key, "accounts", len(list))
	return key, nil
}
