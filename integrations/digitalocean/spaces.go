package digitalocean

import (
	"errors"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"golang.org/x/net/context"
)

type Config struct {
	Key      string
	Secret   string
	Endpoint string
	Region   string
	Bucket   string
}

func (c Config) Enabled() bool {
	return c.Key != "" && c.Secret != "" && c.Bucket != ""
}

// Spaces uploads objects to a DigitalOcean Spaces bucket.
type Spaces struct {
	client s3iface.S3API
	bucket string
}

func NewSpaces(cfg Config) (*Spaces, error) {
	if !cfg.Enabled() {
		return nil, errors.New("spaces key, secret and bucket are required")
	}
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.Key, cfg.Secret, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(false),
		Region:           aws.String(cfg.Region),
	}
	newSession, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}
	return &Spaces{client: s3.New(newSession), bucket: cfg.Bucket}, nil
}

func (s *Spaces) Upload(ctx context.Context, key string, body io.ReadSeeker) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    aws.String("private"),
	})
	return err
}
