// Package main is the Lambda entry point for project reads and sharing.
//
// Endpoints:
//
//	GET  /api/projects/{id}           — fetch a project (counts the view)
//	GET  /api/projects/{id}/download  — ZIP bundle of the project's assets
//	GET  /api/users/{id}/projects     — list a user's projects, newest first
//	POST /api/share                   — create a platform share link
//	GET  /api/health                  — health check
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/vuhoang/whatif-studio/internal/boot"
	"github.com/vuhoang/whatif-studio/internal/logging"
	"github.com/vuhoang/whatif-studio/internal/pipeline"
	"github.com/vuhoang/whatif-studio/internal/webapi"
)

var api *webapi.ProjectAPI

func init() {
	initStart := time.Now()
	logging.Init()

	aws := boot.InitAWS()
	s3c := boot.InitS3(aws.Config, "MEDIA_BUCKET_NAME")
	dataStore := boot.InitStore(aws.Config, "PROJECTS_TABLE_NAME", "USERS_TABLE_NAME")

	frontendURL := logging.EnvOrDefault("FRONTEND_URL", "https://whatif.example.com")

	// This Lambda only reads; the generation stages are never invoked.
	pipe := pipeline.New(nil, nil, nil, dataStore, dataStore,
		pipeline.Config{FrontendBaseURL: frontendURL})

	api = &webapi.ProjectAPI{
		Svc:    pipe,
		S3:     s3c.Client,
		Bucket: s3c.Bucket,
	}

	boot.StartupLog("project-lambda", initStart).
		S3Bucket("media", s3c.Bucket).
		DynamoTable("projects", os.Getenv("PROJECTS_TABLE_NAME")).
		DynamoTable("users", os.Getenv("USERS_TABLE_NAME")).
		Config("frontendUrl", frontendURL).
		Log()
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", webapi.HandleHealth)
	mux.HandleFunc("/api/projects/", api.HandleProjectRoutes)
	mux.HandleFunc("/api/users/", api.HandleUserProjects)
	mux.HandleFunc("/api/share", api.HandleShare)

	handler := webapi.WithRequestID(webapi.WithCORS(mux))

	adapter := httpadapter.NewV2(handler)
	lambda.Start(adapter.ProxyWithContext)
}
