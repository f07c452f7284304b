// Package main provides the deployment CLI for the RGB splitting Lambda.
//
// It compiles the Lambda binary for the target Linux platform, packages it
// into a zip artifact, uploads the artifact to the environment's staging
// bucket, and points the managed function at the new code. Development and
// production environments differ only in credentials profile, staging
// bucket, and function name.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/visual-utils/internal/logging"
)

// envConfig holds the deployment metadata for one target environment.
type envConfig struct {
	Bucket       string
	Profile      string
	FunctionName string
}

var envConfigs = map[string]envConfig{
	"dev": {
		Bucket:       "lambda-deployment-dev-4ce10b1",
		Profile:      "visual-utils-dev",
		FunctionName: "rgb-split-lambda-dev",
	},
	"prod": {
		Bucket:       "lambda-deployment-prod-4ce27e9",
		Profile:      "visual-utils-prod",
		FunctionName: "rgb-split-lambda-prod",
	},
}

var envFlag string

var rootCmd = &cobra.Command{
	Use:   "deploy-cli",
	Short: "Build and deploy the rgb-split-lambda function",
	Long: `deploy-cli packages the rgb-split-lambda binary into a Lambda zip
artifact, uploads it to the environment's staging bucket, and updates the
function code.

Examples:
  deploy-cli --env dev
  deploy-cli --env prod`,
	RunE: runDeploy,
}

func init() {
	rootCmd.Flags().StringVar(&envFlag, "env", "dev", "Target environment (dev or prod)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDeploy(cmd *cobra.Command, args []string) error {
	logging.Init()

	env, ok := envConfigs[envFlag]
	if !ok {
		return fmt.Errorf("invalid environment %q: choose dev or prod", envFlag)
	}
	log.Info().
		Str("env", envFlag).
		Str("profile", env.Profile).
		Str("function", env.FunctionName).
		Msg("Deploying rgb-split-lambda")

	ctx := context.Background()
	deployStart := time.Now()

	binaryPath, err := buildBinary(ctx)
	if err != nil {
		return fmt.Errorf("build binary: %w", err)
	}
	defer os.Remove(binaryPath)

	archivePath, err := buildArchive(binaryPath)
	if err != nil {
		return fmt.Errorf("build archive: %w", err)
	}
	defer os.Remove(archivePath)

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithSharedConfigProfile(env.Profile))
	if err != nil {
		return fmt.Errorf("load AWS config for profile %q: %w", env.Profile, err)
	}

	artifactKey, err := uploadArtifact(ctx, cfg, env.Bucket, archivePath)
	if err != nil {
		return fmt.Errorf("upload artifact: %w", err)
	}

	if err := updateFunctionCode(ctx, cfg, env.FunctionName, env.Bucket, artifactKey); err != nil {
		return fmt.Errorf("update function code: %w", err)
	}

	log.Info().
		Str("function", env.FunctionName).
		Str("artifact", artifactKey).
		Dur("duration", time.Since(deployStart)).
		Msg("Deployment complete")
	return nil
}
