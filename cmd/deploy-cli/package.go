package main

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog/log"
)

// bootstrapName is the binary name the provided.al2023 runtime executes.
const bootstrapName = "bootstrap"

// buildBinary cross-compiles the Lambda binary for the target platform and
// returns the path to the produced executable.
func buildBinary(ctx context.Context) (string, error) {
	outPath := filepath.Join(os.TempDir(), bootstrapName)

	log.Info().Str("target", "linux/arm64").Msg("Building Lambda binary")
	cmd := exec.CommandContext(ctx, "go", "build",
		"-tags", "lambda.norpc",
		"-ldflags", "-s -w",
		"-o", outPath,
		"./cmd/rgb-split-lambda",
	)
	cmd.Env = append(os.Environ(), "GOOS=linux", "GOARCH=arm64", "CGO_ENABLED=0")
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w: %s", err, output)
	}
	return outPath, nil
}

// buildArchive packages the binary into a Lambda deployment zip. The zip's
// deflate compressor is replaced with klauspost/compress at best compression
// to keep the uploaded artifact small.
func buildArchive(binaryPath string) (string, error) {
	archivePath := filepath.Join(os.TempDir(), "rgb-split-lambda.zip")

	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	binary, err := os.Open(binaryPath)
	if err != nil {
		zw.Close()
		return "", fmt.Errorf("open binary: %w", err)
	}
	defer binary.Close()

	hdr := &zip.FileHeader{
		Name:   bootstrapName,
		Method: zip.Deflate,
	}
	// The runtime refuses to execute a bootstrap without the execute bit.
	hdr.SetMode(0o755)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		zw.Close()
		return "", fmt.Errorf("create zip entry: %w", err)
	}
	written, err := io.Copy(w, binary)
	if err != nil {
		zw.Close()
		return "", fmt.Errorf("write zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return "", fmt.Errorf("stat archive: %w", err)
	}
	log.Info().
		Int64("binarySize", written).
		Int64("archiveSize", info.Size()).
		Msg("Lambda package created")
	return archivePath, nil
}
