package questiongen

import (
	"strings"
	"testing"
)

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage(testInput(), 5)

	for _, want := range []string{
		"Topic: deserts",
		"Level: intermediate",
		"Deserts are arid places.",
		"Write 5 multiple-choice questions with 4 options each.",
		"- 2 vocabulary",
		"- 2 inference",
		"- 1 critical-thinking",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildUserMessage_OmitsEmptyFields(t *testing.T) {
	msg := buildUserMessage(GenerateInput{Passage: "Text."}, 3)
	if strings.Contains(msg, "Topic:") || strings.Contains(msg, "Level:") {
		t.Errorf("unexpected empty fields in prompt:\n%s", msg)
	}
}

func TestCategoryMix(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{1, "- 1 vocabulary\n"},
		{3, "- 2 vocabulary\n- 1 inference\n"},
		{5, "- 2 vocabulary\n- 2 inference\n- 1 critical-thinking\n"},
		{7, "- 2 vocabulary\n- 2 inference\n- 3 critical-thinking\n"},
	}
	for _, tt := range tests {
		if got := categoryMix(tt.count); got != tt.want {
			t.Errorf("categoryMix(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
