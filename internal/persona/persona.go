// Package persona holds the injected assistant configuration: which service
// the assistant speaks for, which language it answers in, and the FAQ corpus
// every prompt is grounded on. The chat core itself is persona-agnostic, so
// one binary can serve different FAQ domains by configuration alone.
package persona

import (
	"fmt"
	"os"
	"strings"
)

type Persona struct {
	// Name of the service the assistant represents, e.g. "Arogga".
	Name string
	// Service is a short description used in the prompt role line,
	// e.g. "a medicine delivery service".
	Service string
	// Language forces answers into a given language when non-empty.
	Language string
	// FAQ is the static reference corpus injected into every prompt.
	FAQ string
}

// Load builds a Persona from configuration. When faqPath is empty the
// embedded default corpus is used; otherwise the file contents replace it.
func Load(name, service, language, faqPath string) (*Persona, error) {
	p := &Persona{
		Name:     name,
		Service:  service,
		Language: language,
		FAQ:      defaultFAQ,
	}

	if faqPath != "" {
		data, err := os.ReadFile(faqPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read FAQ corpus from %s: %w", faqPath, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return nil, fmt.Errorf("FAQ corpus at %s is empty", faqPath)
		}
		p.FAQ = string(data)
	}

	return p, nil
}
