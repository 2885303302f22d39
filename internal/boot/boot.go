// Package boot provides shared Lambda cold-start bootstrap logic.
//
// Every Lambda in the project needs some subset of: AWS config, S3, DynamoDB,
// SSM parameter fetch, and startup logging. This package extracts the common
// init patterns so each Lambda's init() is a short composition of helpers.
package boot

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/logging"
	"github.com/vuhoang/whatif-studio/internal/store"
)

// AWSClients holds the core AWS SDK clients used across Lambdas.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// S3Clients holds the S3 client and media bucket name.
type S3Clients struct {
	Client *s3.Client
	Bucket string
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// InitS3 creates an S3 client and reads the bucket name from the given
// environment variable. Fatals if the env var is empty.
func InitS3(cfg aws.Config, bucketEnvVar string) S3Clients {
	bucket := os.Getenv(bucketEnvVar)
	if bucket == "" {
		log.Fatal().Str("envVar", bucketEnvVar).Msg("Bucket environment variable is required")
	}
	return S3Clients{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
	}
}

// InitStore creates the DynamoDB-backed project and usage store from the
// given table name environment variables. Fatals if either is empty.
func InitStore(cfg aws.Config, projectsTableEnvVar, usersTableEnvVar string) *store.DynamoStore {
	projectsTable := os.Getenv(projectsTableEnvVar)
	if projectsTable == "" {
		log.Fatal().Str("envVar", projectsTableEnvVar).Msg("Projects table environment variable is required")
	}
	usersTable := os.Getenv(usersTableEnvVar)
	if usersTable == "" {
		log.Fatal().Str("envVar", usersTableEnvVar).Msg("Users table environment variable is required")
	}
	return store.NewDynamoStore(dynamodb.NewFromConfig(cfg), projectsTable, usersTable)
}

// LoadGeminiKey fetches the Gemini API key from SSM Parameter Store if not
// already set via GEMINI_API_KEY env var. Fatals on error.
func LoadGeminiKey(ssmClient *ssm.Client) {
	loadSecret(ssmClient, "GEMINI_API_KEY", "SSM_GEMINI_KEY_PARAM", "/whatif/prod/gemini-api-key")
}

// LoadImageKey fetches the image service API key from SSM Parameter Store if
// not already set via IMAGE_API_KEY env var. Fatals on error.
func LoadImageKey(ssmClient *ssm.Client) {
	loadSecret(ssmClient, "IMAGE_API_KEY", "SSM_IMAGE_KEY_PARAM", "/whatif/prod/image-api-key")
}

func loadSecret(ssmClient *ssm.Client, envVar, paramEnvVar, defaultParam string) {
	if os.Getenv(envVar) != "" {
		return
	}
	paramName := os.Getenv(paramEnvVar)
	if paramName == "" {
		paramName = defaultParam
	}
	ssmStart := time.Now()
	result, err := ssmClient.GetParameter(context.Background(), &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		log.Fatal().Err(err).Str("param", paramName).Msg("Failed to read secret from SSM")
	}
	os.Setenv(envVar, *result.Parameter.Value)
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(ssmStart)).Msg("Secret loaded from SSM")
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
