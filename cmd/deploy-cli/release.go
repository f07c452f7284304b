package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// uploadArtifact stores the zip in the staging bucket under a unique key and
// returns that key. Unique keys keep prior artifacts available for rollback
// and guarantee UpdateFunctionCode never races a half-overwritten object.
func uploadArtifact(ctx context.Context, cfg aws.Config, bucket, archivePath string) (string, error) {
	key := fmt.Sprintf("rgb-split-lambda/%s.zip", uuid.NewString())

	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	contentType := "application/zip"
	client := s3.NewFromConfig(cfg)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}

	log.Info().
		Str("bucket", bucket).
		Str("key", key).
		Str("archive", filepath.Base(archivePath)).
		Msg("Artifact uploaded to staging bucket")
	return key, nil
}

// updateFunctionCode points the managed function at the staged artifact and
// waits for nothing: Lambda applies the update asynchronously.
func updateFunctionCode(ctx context.Context, cfg aws.Config, functionName, bucket, key string) error {
	client := lambdasvc.NewFromConfig(cfg)
	out, err := client.UpdateFunctionCode(ctx, &lambdasvc.UpdateFunctionCodeInput{
		FunctionName: &functionName,
		S3Bucket:     &bucket,
		S3Key:        &key,
	})
	if err != nil {
		return fmt.Errorf("UpdateFunctionCode %s: %w", functionName, err)
	}

	log.Info().
		Str("function", functionName).
		Str("codeSha256", aws.ToString(out.CodeSha256)).
		Msg("Function code updated")
	return nil
}
