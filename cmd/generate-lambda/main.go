// Package main is the Lambda entry point for the generation API.
//
// Endpoints:
//
//	POST /api/generate — run the full pipeline for one hypothesis
//	GET  /api/health   — health check
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/boot"
	"github.com/vuhoang/whatif-studio/internal/imagegen"
	"github.com/vuhoang/whatif-studio/internal/logging"
	"github.com/vuhoang/whatif-studio/internal/media"
	"github.com/vuhoang/whatif-studio/internal/pipeline"
	"github.com/vuhoang/whatif-studio/internal/scenario"
	"github.com/vuhoang/whatif-studio/internal/webapi"
)

var api *webapi.GenerateAPI

func init() {
	initStart := time.Now()
	logging.Init()

	aws := boot.InitAWS()
	s3c := boot.InitS3(aws.Config, "MEDIA_BUCKET_NAME")
	dataStore := boot.InitStore(aws.Config, "PROJECTS_TABLE_NAME", "USERS_TABLE_NAME")
	boot.LoadGeminiKey(aws.SSM)
	boot.LoadImageKey(aws.SSM)

	model, err := scenario.NewGeminiModel(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create text model")
	}
	generator, err := imagegen.NewRESTGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image generator")
	}

	frontendURL := logging.EnvOrDefault("FRONTEND_URL", "https://whatif.example.com")

	api = &webapi.GenerateAPI{Gen: pipeline.New(
		scenario.NewExtractor(model),
		imagegen.NewSynthesizer(generator),
		media.NewService(s3c.Client, s3c.Bucket),
		dataStore,
		dataStore,
		pipeline.Config{FrontendBaseURL: frontendURL},
	)}

	boot.StartupLog("generate-lambda", initStart).
		S3Bucket("media", s3c.Bucket).
		DynamoTable("projects", os.Getenv("PROJECTS_TABLE_NAME")).
		DynamoTable("users", os.Getenv("USERS_TABLE_NAME")).
		Config("textModel", scenario.ModelName()).
		Config("frontendUrl", frontendURL).
		Log()
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", webapi.HandleHealth)
	mux.HandleFunc("/api/generate", api.HandleGenerate)

	handler := webapi.WithRequestID(webapi.WithCORS(mux))

	adapter := httpadapter.NewV2(handler)
	lambda.Start(adapter.ProxyWithContext)
}
