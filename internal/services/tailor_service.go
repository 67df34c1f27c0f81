package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/vrjob-ai/jobagent/internal/apperr"
	"github.com/vrjob-ai/jobagent/internal/config"
)

const tailorPrompt = `You are an expert resume writer. Customize the following resume to match the job description.
Focus on highlighting relevant skills and experiences that match the job requirements.
Keep the same format and structure, but modify the content to be more relevant.

Job Description:
%s

Original Resume:
%s

Return the customized resume in the same format as the original.`

// TailorService wraps the text-generation model used to produce a
// job-specific résumé variant.
type TailorService struct {
	Client  llms.Model
	Timeout time.Duration
	Backoff time.Duration
}

// NewTailorService initializes the Gemini-backed client.
func NewTailorService(cfg *config.Config) *TailorService {
	ctx := context.Background()

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.GeminiModel),
	)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}

	return &TailorService{
		Client:  llm,
		Timeout: cfg.TailorTimeout,
		Backoff: 2 * time.Second,
	}
}

// Tailor sends the résumé and job description to the model and returns the
// tailored text. The call is bounded by the configured timeout and retried
// once on transient failure; on any final failure the error propagates and
// the original résumé is never substituted.
func (s *TailorService) Tailor(ctx context.Context, resumeText, jobDescription string) (string, error) {
	prompt := fmt.Sprintf(tailorPrompt, jobDescription, resumeText)

	var out string
	attempt := func() error {
		callCtx := ctx
		if s.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
			defer cancel()
		}
		resp, err := llms.GenerateFromSinglePrompt(callCtx, s.Client, prompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(resp) == "" {
			return fmt.Errorf("model returned empty completion")
		}
		out = resp
		return nil
	}

	backoff := s.Backoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	// 2 attempts total; LLM-backed calls are expected to be occasionally flaky
	if err := retry(2, backoff, attempt); err != nil {
		return "", apperr.Tailoring(err, "résumé tailoring failed")
	}
	return out, nil
}
