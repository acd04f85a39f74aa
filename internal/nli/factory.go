package nli

import (
	"fmt"
	"strings"

	"github.com/veridict/veridict/internal/model"
)

// NewClassifier creates a classifier from configuration. An empty name
// selects the offline lexical classifier.
func NewClassifier(cfg model.VerifyConfig) (Classifier, error) {
	switch strings.ToLower(cfg.Classifier) {
	case "", "lexical":
		return NewLexicalClassifier(), nil

	case "openai":
		return NewOpenAIClassifier(cfg)

	case "anthropic", "claude":
		return NewAnthropicClassifier(cfg)

	case "ollama":
		return NewOllamaClassifier(cfg)

	default:
		return nil, fmt.Errorf("unknown classifier: %s (supported: lexical, openai, anthropic, ollama)", cfg.Classifier)
	}
}
