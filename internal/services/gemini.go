package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"faqchat-backend/internal/persona"
)

const fallbackAnswer = "We could not generate an answer for this question. Please try rephrasing it."

// GeminiService wraps the external LLM collaborator. The call is synchronous;
// the only policies layered on top are a per-call timeout, a single retry,
// and a token bucket bounding concurrent requests.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	persona  *persona.Persona
	timeout  time.Duration
	rateChan chan struct{} // Token bucket
	logger   *zap.Logger
}

func NewGeminiService(apiKey, modelName string, timeout time.Duration, concurrentReqs int, p *persona.Persona, logger *zap.Logger) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SetTopP(0.8)
	model.SetTopK(40)
	model.SetMaxOutputTokens(1024)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}

	// Token bucket bounding in-flight Gemini calls
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		persona:  p,
		timeout:  timeout,
		rateChan: rateChan,
		logger:   logger,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Answer sends the FAQ-grounded prompt for one question and returns the
// generated text. A failed call is retried exactly once.
func (s *GeminiService) Answer(ctx context.Context, question string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	prompt := BuildFAQPrompt(s.persona, question)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Gemini call failed, retrying once", zap.Error(err))
		text, err = s.generate(ctx, prompt)
	}
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	if text == "" {
		s.logger.Warn("Gemini returned empty text, using fallback answer")
		return fallbackAnswer, nil
	}
	return text, nil
}

func (s *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(extractText(resp)), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// BuildFAQPrompt layers the persona role, grounding rules, FAQ corpus and the
// user question into one prompt string.
func BuildFAQPrompt(p *persona.Persona, question string) string {
	var b strings.Builder

	// Layer 1 — Role
	b.WriteString(fmt.Sprintf("You are a helpful customer service assistant for %s, %s.\n", p.Name, p.Service))

	// Layer 2 — Grounding rules
	b.WriteString("Answer the following question based on the FAQ information provided below.\n")
	b.WriteString("If the question is not directly addressed in the FAQ, use the information to provide the most relevant answer.\n")
	b.WriteString(fmt.Sprintf("If the question is completely unrelated to the FAQ topics, politely inform that you can only answer questions related to %s's services.\n\n", p.Name))

	// Layer 3 — Language
	if p.Language != "" {
		b.WriteString(fmt.Sprintf("Language: Respond entirely in %s.\n\n", p.Language))
	}

	// Layer 4 — Corpus
	b.WriteString("---FAQ START---\n")
	b.WriteString(p.FAQ)
	b.WriteString("\n---FAQ END---\n\n")

	// Layer 5 — Question
	b.WriteString("USER QUESTION: ")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String()
}
