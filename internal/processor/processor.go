// Package processor drives the per-record RGB splitting pipeline:
// fetch source object, decode to RGB, split into channel images, re-encode
// each as JPEG, and store the three outputs under channel-prefixed keys in
// the destination bucket.
package processor

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/fpang/visual-utils/internal/imagecodec"
	"github.com/fpang/visual-utils/internal/metrics"
	"github.com/fpang/visual-utils/internal/splitter"
)

// metricsNamespace is the CloudWatch namespace for pipeline metrics.
const metricsNamespace = "VisualUtils/RGBSplit"

// Storage abstracts the object store the pipeline reads from and writes to.
// Satisfied by *s3gateway.Gateway.
type Storage interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
	Store(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// MalformedEventError reports a notification record missing required fields
// or carrying an undecodable object key.
type MalformedEventError struct {
	Reason string
}

func (e *MalformedEventError) Error() string {
	return "malformed event record: " + e.Reason
}

// ProcessingError wraps a pipeline failure with the object key it occurred
// on, so the invocation response can name the offending object.
type ProcessingError struct {
	ObjectKey string
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing %q: %v", e.ObjectKey, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Outcome describes one successfully processed record.
type Outcome struct {
	ObjectKey       string
	DestinationKeys []string
	Width           int
	Height          int
}

// Processor runs the splitting pipeline for individual notification records.
type Processor struct {
	storage    Storage
	destBucket string
}

// New creates a Processor writing outputs to destBucket.
func New(storage Storage, destBucket string) *Processor {
	return &Processor{storage: storage, destBucket: destBucket}
}

// ProcessRecord runs the full pipeline for one record. On success it returns
// the three destination keys; any failure is logged with the object key and
// returned as a *ProcessingError. A failed record leaves already-stored
// channel images in place: Store overwrites, so a replayed event reproduces
// identical output.
func (p *Processor) ProcessRecord(ctx context.Context, record events.S3EventRecord) (*Outcome, error) {
	start := time.Now()

	srcBucket := record.S3.Bucket.Name
	rawKey := record.S3.Object.Key
	if srcBucket == "" {
		return nil, &MalformedEventError{Reason: "missing s3.bucket.name"}
	}
	if rawKey == "" {
		return nil, &MalformedEventError{Reason: "missing s3.object.key"}
	}

	// Notification keys are URL-encoded ("+" for spaces, %XX escapes).
	objectKey, err := url.QueryUnescape(rawKey)
	if err != nil {
		return nil, &MalformedEventError{Reason: fmt.Sprintf("undecodable object key %q: %v", rawKey, err)}
	}

	logger := log.With().
		Str("bucket", srcBucket).
		Str("key", objectKey).
		Logger()
	logger.Info().Msg("Processing object")

	data, err := p.storage.Fetch(ctx, srcBucket, objectKey)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch source object")
		return nil, &ProcessingError{ObjectKey: objectKey, Err: err}
	}

	img, err := imagecodec.Decode(data)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to decode source image")
		return nil, &ProcessingError{ObjectKey: objectKey, Err: err}
	}
	width, height := img.Rect.Dx(), img.Rect.Dy()
	logger.Info().Int("width", width).Int("height", height).Msg("Image loaded")

	red, green, blue := splitter.Split(img)
	logger.Debug().Msg("Channel separation complete")

	channels := []struct {
		ch  splitter.Channel
		img *image.RGBA
	}{
		{splitter.Red, red},
		{splitter.Green, green},
		{splitter.Blue, blue},
	}

	destKeys := make([]string, 0, len(channels))
	for _, c := range channels {
		encoded, err := imagecodec.Encode(c.img)
		if err != nil {
			logger.Error().Err(err).Str("channel", c.ch.Name()).Msg("Failed to encode channel image")
			return nil, &ProcessingError{ObjectKey: objectKey, Err: err}
		}

		destKey := c.ch.Name() + "/" + objectKey
		if err := p.storage.Store(ctx, p.destBucket, destKey, encoded, imagecodec.ContentType); err != nil {
			logger.Error().Err(err).Str("destKey", destKey).Msg("Failed to store channel image")
			return nil, &ProcessingError{ObjectKey: objectKey, Err: err}
		}
		logger.Info().Str("destKey", destKey).Int("size", len(encoded)).Msg("Channel image uploaded")
		destKeys = append(destKeys, destKey)
	}

	metrics.New(metricsNamespace).
		Dimension("SourceBucket", srcBucket).
		Metric("ImageWidth", float64(width), metrics.UnitNone).
		Metric("ImageHeight", float64(height), metrics.UnitNone).
		Duration("RecordDuration", time.Since(start)).
		Property("objectKey", objectKey).
		Flush()

	return &Outcome{
		ObjectKey:       objectKey,
		DestinationKeys: destKeys,
		Width:           width,
		Height:          height,
	}, nil
}
