package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofrs/uuid/v5"
)

// Uploader stores a blob durably and returns a retrievable public URL.
// Implementations may fail; callers surface that as a gateway error.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type s3Store struct {
	uploader *manager.Uploader
	bucket   string
	region   string
}

func newS3Store(ctx context.Context, region, bucket string) (*s3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg)
	return &s3Store{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		region:   region,
	}, nil
}

func (s *s3Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, url.PathEscape(key)), nil
}

// matches the original's 10mb body cap
const maxUploadBytes = 10 << 20

func (a *api) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if a.media == nil {
		respondError(w, http.StatusServiceUnavailable, "image uploads not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad request")
		return
	}
	key := uuid.Must(uuid.NewV4()).String() + path.Ext(header.Filename)
	uploadedURL, err := a.media.Upload(r.Context(), key, header.Header.Get("Content-Type"), data)
	if err != nil {
		a.log.Errorf("upload: %v", err)
		respondError(w, http.StatusBadGateway, "image upload failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"url": uploadedURL})
}
