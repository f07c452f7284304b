// Package s3gateway wraps the S3 operations the splitting pipeline needs:
// fetching a source object's bytes and storing processed outputs.
//
// Backend failures are classified into NotFoundError (missing source object)
// and TransientError (retryable service failures). Neither is retried here —
// retry policy belongs to the invoking platform, and Store is idempotent so
// a replayed event reproduces identical output.
package s3gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/rs/zerolog/log"
)

// API is the subset of the S3 client used by the gateway.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NotFoundError reports a source object that does not exist.
type NotFoundError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object s3://%s/%s not found: %v", e.Bucket, e.Key, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// TransientError reports a retryable storage backend failure.
type TransientError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Gateway performs object fetches and stores against S3.
type Gateway struct {
	client API
}

// New creates a Gateway over the given S3 API.
func New(client API) *Gateway {
	return &Gateway{client: client}
}

// Fetch returns the full byte content of the object at (bucket, key).
func (g *Gateway) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	log.Debug().Str("bucket", bucket).Str("key", key).Msg("Fetching object from S3")

	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Bucket: bucket, Key: key, Err: err}
		}
		return nil, &TransientError{Op: "get", Bucket: bucket, Key: key, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &TransientError{Op: "read", Bucket: bucket, Key: key, Err: err}
	}
	return data, nil
}

// Store writes data to (bucket, key), overwriting any existing object.
func (g *Gateway) Store(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return &TransientError{Op: "put", Bucket: bucket, Key: key, Err: err}
	}

	log.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int("size", len(data)).
		Msg("Object stored in S3")
	return nil
}

// isNotFound reports whether err indicates a missing object, either as the
// modeled NoSuchKey error or a bare 404 from a HeadObject-shaped response.
func isNotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return false
}
