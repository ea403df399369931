package questiongen

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Validator: "test-validator",
		Message:   "something went wrong",
		Retryable: true,
	}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"structural", "options", "answer", "category"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Count != 5 {
		t.Errorf("expected Count 5, got %d", cfg.Count)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("expected Temperature 0.7, got %f", cfg.Temperature)
	}
	if cfg.StructuredOutput {
		t.Error("structured output should be off by default")
	}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"ok", "What is the main idea?", false},
		{"trimmed", "  Why?  ", false},
		{"empty", "   ", true},
		{"too long", strings.Repeat("x", 501), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Question{Text: tt.text}
			err := v.Validate(q, 0)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && q.Text != strings.TrimSpace(tt.text) {
				t.Errorf("text not trimmed: %q", q.Text)
			}
		})
	}
}

func TestOptionsValidator(t *testing.T) {
	v := &OptionsValidator{}
	tests := []struct {
		name    string
		options []string
		wantErr bool
	}{
		{"two", []string{"a", "b"}, false},
		{"four", []string{"a", "b", "c", "d"}, false},
		{"one", []string{"a"}, true},
		{"five", []string{"a", "b", "c", "d", "e"}, true},
		{"blank", []string{"a", " "}, true},
		{"duplicate", []string{"a", "a "}, true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&Question{Options: tt.options}, 0)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnswerValidator(t *testing.T) {
	v := &AnswerValidator{}
	opts := []string{"dry", "wet"}

	if err := v.Validate(&Question{Options: opts, Correct: " dry "}, 0); err != nil {
		t.Errorf("trimmed member rejected: %v", err)
	}
	if err := v.Validate(&Question{Options: opts, Correct: ""}, 0); err == nil {
		t.Error("missing answer accepted")
	}
	if err := v.Validate(&Question{Options: opts, Correct: "A"}, 0); err == nil {
		t.Error("letter answer accepted")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"vocabulary", CategoryVocabulary, true},
		{"Vocab", CategoryVocabulary, true},
		{"inference", CategoryInference, true},
		{"Critical Thinking", CategoryCriticalThinking, true},
		{"critical_thinking", CategoryCriticalThinking, true},
		{"", "", false},
		{"math", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCategory(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
