package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"camsentry/internal/config"
	"camsentry/internal/models"
)

// DefaultPrompt is used when no prompt file is configured. The operator
// prompt may reference {location}, which is replaced per event.
const DefaultPrompt = `You are monitoring the security camera at {location}.
Look at the attached snapshot and decide whether a person or animal is clearly visible.
Ignore vehicles parked without occupants, shadows, rain, insects near the lens and moving foliage.

Reply with a single JSON object and nothing else:
{"detected": true or false, "description": "one short spoken-style sentence, e.g. 'a person walking a dog'"}

If nothing of interest is visible, reply:
{"detected": false, "description": ""}`

// Error describes a transport-level classification failure (network,
// auth, quota). Unparseable model output is not an Error.
type Error struct {
	Model string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("classify with %s: %v", e.Model, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Service sends camera snapshots to Gemini and interprets the verdict.
type Service struct {
	client  *genai.Client
	model   string
	prompt  string
	timeout time.Duration
}

func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured (set GOOGLE_API_KEY or GEMINI_API_KEY)")
	}

	prompt, err := loadPrompt(cfg.PromptFile)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	log.Info().Str("model", cfg.GeminiModel).Msg("Gemini classifier initialized")

	return &Service{
		client:  client,
		model:   cfg.GeminiModel,
		prompt:  prompt,
		timeout: cfg.ClassifyTimeout,
	}, nil
}

func loadPrompt(path string) (string, error) {
	if path == "" {
		return DefaultPrompt, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("Prompt file not found, using built-in prompt")
			return DefaultPrompt, nil
		}
		return "", fmt.Errorf("read prompt file %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("Loaded classification prompt")
	return string(data), nil
}

// Classify asks the vision model whether the snapshot shows a subject
// of interest at location.
func (s *Service) Classify(ctx context.Context, image []byte, location string) (models.ClassificationResult, error) {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(renderPrompt(s.prompt, location)),
			genai.NewPartFromBytes(image, "image/jpeg"),
		}, genai.RoleUser),
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(tctx, s.model, contents, nil)
	if err != nil {
		return models.ClassificationResult{}, &Error{Model: s.model, Err: err}
	}

	result := interpret(resp.Text(), location)
	log.Debug().
		Str("location", location).
		Bool("detected", result.Detected).
		Dur("model_time", time.Since(start)).
		Msg("Classification completed")

	return result, nil
}

// renderPrompt substitutes the event location into the prompt template.
func renderPrompt(template, location string) string {
	return strings.ReplaceAll(template, "{location}", location)
}

// interpret maps raw model text onto a ClassificationResult. A bare
// "none" is a confirmed negative (the reply older prompts asked for);
// replies that parse as neither JSON nor "none" count as no detection.
func interpret(raw, location string) models.ClassificationResult {
	cleaned := strings.TrimSpace(stripFences(raw))

	var verdict struct {
		Detected    bool   `json:"detected"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(cleaned), &verdict); err == nil {
		return models.ClassificationResult{
			Detected:    verdict.Detected,
			Description: strings.TrimSpace(verdict.Description),
			Raw:         raw,
		}
	}

	if strings.EqualFold(cleaned, "none") {
		log.Debug().Str("location", location).Msg("Classifier confirmed no subject")
		return models.ClassificationResult{Raw: raw}
	}

	log.Warn().
		Str("location", location).
		Str("response", truncate(raw, 200)).
		Msg("Unparseable classifier response, treating as no detection")
	return models.ClassificationResult{Raw: raw}
}

// stripFences removes a surrounding markdown code fence, with or
// without a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
