// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible archive for raw uploads. The
// local file store stays authoritative; when an endpoint is configured,
// uploads are mirrored to the bucket under their content-addressed key so
// they survive local retention sweeps. The client is configured for
// path-style access (required by CEPH/MinIO-style endpoints).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive wraps an S3 client around a single uploads bucket.
type Archive struct {
	s3     *s3.Client
	bucket string
}

// New creates an upload archive configured with static credentials and
// path-style addressing. Returns (nil, nil) if endpoint or credentials are
// empty, allowing the app to run with local storage only.
func New(endpoint, region, accessKey, secretKey, bucket string) (*Archive, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 archive: bucket name required")
	}

	endpoint = strings.TrimRight(endpoint, "/")
	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Archive{s3: client, bucket: bucket}, nil
}

// Put stores a raw upload under its content-addressed key. Re-archiving an
// identical upload overwrites the same object with the same bytes.
func (a *Archive) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", a.bucket, key, err)
	}
	return nil
}

// Get retrieves an archived upload by its key.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	output, err := a.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", a.bucket, key, err)
	}
	defer output.Body.Close()
	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", a.bucket, key, err)
	}
	return data, nil
}

// Delete removes an archived upload.
func (a *Archive) Delete(ctx context.Context, key string) error {
	_, err := a.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", a.bucket, key, err)
	}
	return nil
}
