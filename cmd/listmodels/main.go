package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

// Lists the Gemini models the configured API key can use with
// generateContent, for picking a GEMINI_MODEL value.
func main() {
	godotenv.Load()

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: GOOGLE_API_KEY or GEMINI_API_KEY environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create client: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Available Gemini models:")
	fmt.Println()

	for model, err := range client.Models.All(ctx) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: list models: %v\n", err)
			os.Exit(1)
		}
		if !supportsGenerate(model) {
			continue
		}
		fmt.Printf("✓ %s\n", model.Name)
		fmt.Printf("  Display name: %s\n", model.DisplayName)
		fmt.Printf("  Actions: %s\n", strings.Join(model.SupportedActions, ", "))
		fmt.Println()
	}
}

func supportsGenerate(model *genai.Model) bool {
	for _, action := range model.SupportedActions {
		if action == "generateContent" {
			return true
		}
	}
	return false
}
