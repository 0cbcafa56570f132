package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// S3Store uploads images to an S3 bucket and serves them from a public base
// URL (the bucket's CDN distribution).
type S3Store struct {
	bucket     string
	publicBase string
	uploader   *s3manager.Uploader
	svc        *s3.S3
}

func NewS3Store(region, bucket, publicBase string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Store{
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
		uploader:   s3manager.NewUploader(sess),
		svc:        s3.New(sess),
	}, nil
}

// Store uploads the image under a content-addressed key and returns its
// public URL. Re-uploading identical bytes yields the same URL.
func (s *S3Store) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if ext, ok := extByContentType[contentType]; ok {
		key += ext
	}

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:         aws.String("public-read"),
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return s.publicBase + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.publicBase+"/") {
		return fmt.Errorf("url %q is not served from this store", url)
	}
	key := strings.TrimPrefix(url, s.publicBase+"/")

	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}
