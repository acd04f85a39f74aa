package nli

import (
	"testing"

	"github.com/veridict/veridict/internal/model"
)

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		desc     string
		cfg      model.VerifyConfig
		expected string
		wantErr  bool
	}{
		{"empty name defaults to lexical", model.VerifyConfig{}, "lexical", false},
		{"lexical", model.VerifyConfig{Classifier: "lexical"}, "lexical", false},
		{"case insensitive", model.VerifyConfig{Classifier: "Lexical"}, "lexical", false},
		{"openai with key", model.VerifyConfig{Classifier: "openai", APIKey: "k"}, "openai", false},
		{"openai without key", model.VerifyConfig{Classifier: "openai"}, "", true},
		{"anthropic with key", model.VerifyConfig{Classifier: "anthropic", APIKey: "k"}, "anthropic", false},
		{"claude alias", model.VerifyConfig{Classifier: "claude", APIKey: "k"}, "anthropic", false},
		{"anthropic without key", model.VerifyConfig{Classifier: "anthropic"}, "", true},
		{"ollama with model", model.VerifyConfig{Classifier: "ollama", Model: "llama3.1:8b"}, "ollama", false},
		{"ollama without model", model.VerifyConfig{Classifier: "ollama"}, "", true},
		{"unknown", model.VerifyConfig{Classifier: "bert"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			classifier, err := NewClassifier(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", classifier)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if classifier.Name() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, classifier.Name())
			}
		})
	}
}
