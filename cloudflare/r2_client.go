// Package cloudflare provides a client for interacting with the Cloudflare API.
package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

// Upper bound for any single call against the bucket so a stalled backend
// can't hang a request forever
const callTimeout = 10 * time.Second

type R2Client struct {
	C       *s3.Client
	Presign *s3.PresignClient
	Bucket  *string
}

func NewR2() (*R2Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("cloudflare.access_key_id"),
			viper.GetString("cloudflare.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("cloudflare.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", viper.GetString("cloudflare.account_id")))
		o.Region = "auto"
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &R2Client{
		C:       client,
		Presign: s3.NewPresignClient(client),
		Bucket:  bucket,
	}, nil
}

// List returns up to maxKeys raw object entries from the bucket
func (r *R2Client) List(ctx context.Context, maxKeys int32) ([]types.Object, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := r.C.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  r.Bucket,
		MaxKeys: aws.Int32(maxKeys),
	})
	if err != nil {
		return nil, err
	}

	return out.Contents, nil
}

// PresignGet mints a time limited read URL for a single key. Signing happens
// locally, there is no side effect on the bucket.
func (r *R2Client) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := r.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: r.Bucket,
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// PresignPut mints a time limited write URL scoped to exactly this key and
// content type
func (r *R2Client) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := r.Presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      r.Bucket,
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// DeleteObject removes a single key. Deleting a key that doesn't exist is a
// no-op upstream and reports success.
func (r *R2Client) DeleteObject(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := r.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: r.Bucket,
		Key:    aws.String(key),
	})

	return err
}
