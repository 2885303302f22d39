// Package main is the command line front end for the generation pipeline.
//
// It runs the same stages as the Lambda API: scenario extraction, prompt
// enhancement, image synthesis, media assembly, and persistence. With
// --dry-run it stops after scenario extraction and prints what the visual
// pipeline would render, without calling the image service or AWS.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vuhoang/whatif-studio/internal/boot"
	"github.com/vuhoang/whatif-studio/internal/imagegen"
	"github.com/vuhoang/whatif-studio/internal/logging"
	"github.com/vuhoang/whatif-studio/internal/media"
	"github.com/vuhoang/whatif-studio/internal/pipeline"
	"github.com/vuhoang/whatif-studio/internal/promptstyle"
	"github.com/vuhoang/whatif-studio/internal/scenario"
	"github.com/vuhoang/whatif-studio/internal/store"
)

// CLI flags
var (
	promptFlag   string
	languageFlag string
	userFlag     string
	dryRunFlag   bool
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Turn a \"what if\" hypothesis into an illustrated scenario",
	Long: `whatif asks an AI model to explore a hypothetical question, then renders
the scenario as an image gallery and slideshow video.

The prompt is analyzed for language (English or Vietnamese), expanded into a
narrative with scientific analysis, and broken into a sequence of image
prompts that are enhanced and sent to the image service. Results are
uploaded to S3 and recorded in DynamoDB, same as the web API.

Examples:
  whatif --prompt "what if the moon were twice as close"
  whatif -p "điều gì xảy ra nếu mặt trời biến mất" -l vi
  whatif -p "what if gravity doubled" --dry-run
  whatif  # Interactive mode - prompts for the hypothesis`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&promptFlag, "prompt", "p", "", "The \"what if\" hypothesis to explore")
	rootCmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Response language (en or vi; detected from the prompt when empty)")
	rootCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID to record the project under (anonymous when empty)")
	rootCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Stop after scenario extraction; print the plan without rendering")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	prompt := promptFlag
	if prompt == "" {
		prompt = promptForHypothesis()
	}
	if strings.TrimSpace(prompt) == "" {
		log.Fatal().Msg("A hypothesis is required")
	}

	ctx := context.Background()

	if dryRunFlag {
		runDry(ctx, prompt)
		return
	}

	aws := boot.InitAWS()
	s3c := boot.InitS3(aws.Config, "MEDIA_BUCKET_NAME")
	dataStore := boot.InitStore(aws.Config, "PROJECTS_TABLE_NAME", "USERS_TABLE_NAME")
	boot.LoadGeminiKey(aws.SSM)
	boot.LoadImageKey(aws.SSM)

	model, err := scenario.NewGeminiModel(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create text model")
	}
	generator, err := imagegen.NewRESTGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image generator")
	}

	frontendURL := logging.EnvOrDefault("FRONTEND_URL", "https://whatif.example.com")
	pipe := pipeline.New(
		scenario.NewExtractor(model),
		imagegen.NewSynthesizer(generator),
		media.NewService(s3c.Client, s3c.Bucket),
		dataStore,
		dataStore,
		pipeline.Config{FrontendBaseURL: frontendURL},
	)

	runStart := time.Now()
	result, err := pipe.Generate(ctx, pipeline.GenerateRequest{
		Prompt:   prompt,
		Language: languageFlag,
		UserID:   userFlag,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}

	printProject(result.Project)
	fmt.Printf("\nShare URL: %s\n", result.ShareURL)
	fmt.Printf("Completed in %s\n", time.Since(runStart).Round(time.Second))
}

// runDry extracts the scenario and prints the visual plan without touching
// the image service or AWS.
func runDry(ctx context.Context, prompt string) {
	boot.LoadGeminiKey(boot.InitAWS().SSM)

	model, err := scenario.NewGeminiModel(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create text model")
	}

	sc, err := scenario.NewExtractor(model).Extract(ctx, prompt, languageFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Scenario extraction failed")
	}

	fmt.Printf("Title: %s\n", sc.Title)
	fmt.Printf("Summary: %s\n\n", sc.ShortDescription)
	fmt.Printf("Scenario:\n%s\n\n", sc.Scenario)
	fmt.Printf("Scientific analysis:\n%s\n\n", sc.ScientificAnalysis)
	fmt.Println("Image prompts (as they would be sent to the image service):")
	for i, img := range sc.Images {
		fmt.Printf("  %d. %s\n", i+1, promptstyle.Enhance(img.Prompt, i, len(sc.Images)))
		if img.Description != "" {
			fmt.Printf("     %s\n", img.Description)
		}
	}
}

func printProject(p *store.Project) {
	fmt.Printf("\nProject %s: %s\n", p.ID, p.Title)
	fmt.Printf("%s\n\n", p.ShortDescription)
	fmt.Println("Gallery:")
	for i, img := range p.Images {
		fmt.Printf("  %d. %s\n", i+1, img.URL)
	}
	if p.Video != nil {
		fmt.Printf("Slideshow: %s\n", p.Video.URL)
	}
}

// promptForHypothesis interactively reads the hypothesis from stdin.
func promptForHypothesis() string {
	fmt.Print("What if... ? Enter your hypothesis: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read hypothesis")
	}
	return strings.TrimSpace(line)
}
