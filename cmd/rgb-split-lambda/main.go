// Package main provides the Lambda entry point for RGB channel splitting.
//
// The function is triggered by S3 "object created" notifications. For each
// record it downloads the new image, splits it into red-only, green-only,
// and blue-only variants, and uploads each variant to the destination bucket
// under a channel-prefixed key ({red,green,blue}/<original-key>).
//
// Memory: 256 MB
// Timeout: 1 minute
package main

import (
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/fpang/visual-utils/internal/lambdaboot"
	"github.com/fpang/visual-utils/internal/logging"
	"github.com/fpang/visual-utils/internal/processor"
	"github.com/fpang/visual-utils/internal/s3gateway"
)

// handler is built once at cold start; everything it needs is injected here
// and treated as immutable for the process lifetime.
var handler *Handler

func init() {
	initStart := time.Now()
	logging.Init()

	cfg := lambdaboot.InitAWS()
	s3Client, destBucket := lambdaboot.InitS3(cfg, "DESTINATION_BUCKET")

	gateway := s3gateway.New(s3Client)
	handler = NewHandler(processor.New(gateway, destBucket))

	lambdaboot.StartupLog("rgb-split-lambda", initStart).
		S3Bucket("destinationBucket", destBucket).
		Log()
}

func main() {
	lambda.Start(handler.Handle)
}
