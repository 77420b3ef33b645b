package services

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"faqchat-backend/internal/persona"
)

func testPersona() *persona.Persona {
	return &persona.Persona{
		Name:    "Arogga",
		Service: "a medicine delivery service",
		FAQ:     "What is arogga cash?\nA virtual wallet.",
	}
}

func TestBuildFAQPrompt(t *testing.T) {
	p := testPersona()
	prompt := BuildFAQPrompt(p, "Can I add money to my arogga cash?")

	for _, want := range []string{
		"customer service assistant for Arogga, a medicine delivery service",
		"What is arogga cash?",
		"---FAQ START---",
		"---FAQ END---",
		"USER QUESTION: Can I add money to my arogga cash?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(prompt, "Respond entirely in") {
		t.Error("language directive present without a configured language")
	}
}

func TestBuildFAQPrompt_LanguageDirective(t *testing.T) {
	p := testPersona()
	p.Language = "Bengali"

	prompt := BuildFAQPrompt(p, "question")
	if !strings.Contains(prompt, "Respond entirely in Bengali") {
		t.Error("expected language directive in prompt")
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("hello "), genai.Text("world")}}},
			{Content: nil},
		},
	}

	if got := extractText(resp); got != "hello world" {
		t.Errorf("extractText = %q, want %q", got, "hello world")
	}

	empty := &genai.GenerateContentResponse{}
	if got := extractText(empty); got != "" {
		t.Errorf("extractText on empty response = %q", got)
	}
}
