package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/fpang/visual-utils/internal/processor"
)

// Response is the invocation result returned to the calling platform.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Handler iterates a notification's records and aggregates the per-record
// outcomes into a single invocation response.
type Handler struct {
	processor *processor.Processor
}

// NewHandler creates a Handler over the given record processor.
func NewHandler(p *processor.Processor) *Handler {
	return &Handler{processor: p}
}

// Handle processes the event's records in order. The first record failure
// aborts the remaining records and yields a 500 whose body names the failed
// object; outputs already stored by earlier records stay in place, and a
// replayed event overwrites them identically. On full success it returns
// 200 with the list of processed object keys.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) (Response, error) {
	start := time.Now()
	log.Info().Int("records", len(event.Records)).Msg("Received S3 event")

	objectKeys := make([]string, 0, len(event.Records))
	for _, record := range event.Records {
		outcome, err := h.processor.ProcessRecord(ctx, record)
		if err != nil {
			log.Error().Err(err).Msg("Record processing failed — aborting invocation")
			return Response{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprintf("Error processing records: %v", err),
			}, nil
		}
		objectKeys = append(objectKeys, outcome.ObjectKey)
	}

	body := "Processed the following s3Objects: " + strings.Join(objectKeys, ", ")
	log.Info().
		Int("records", len(objectKeys)).
		Dur("duration", time.Since(start)).
		Msg(body)

	return Response{
		StatusCode: http.StatusOK,
		Body:       body,
	}, nil
}
