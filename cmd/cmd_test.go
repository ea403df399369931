package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/lectio/internal/store"
)

func TestFilterPurpose(t *testing.T) {
	events := []store.LLMEvent{
		{ID: 4, LLMRequestEventData: store.LLMRequestEventData{Purpose: "questions"}},
		{ID: 3, LLMRequestEventData: store.LLMRequestEventData{Purpose: "passage"}},
		{ID: 2, LLMRequestEventData: store.LLMRequestEventData{Purpose: "questions"}},
		{ID: 1, LLMRequestEventData: store.LLMRequestEventData{Purpose: "questions"}},
	}

	assert.Len(t, filterPurpose(events, "", 1), 4, "no purpose keeps everything")

	got := filterPurpose(events, "questions", 2)
	if assert.Len(t, got, 2) {
		assert.Equal(t, int64(4), got[0].ID)
		assert.Equal(t, int64(2), got[1].ID)
	}
}

func TestPrintEvents(t *testing.T) {
	var buf bytes.Buffer
	printEvents(&buf, nil)
	assert.Contains(t, buf.String(), "No LLM events found.")

	buf.Reset()
	printEvents(&buf, []store.LLMEvent{{
		ID:        7,
		Timestamp: time.Now(),
		LLMRequestEventData: store.LLMRequestEventData{
			Purpose: "passage", Model: "gpt-4o-mini", InputTokens: 10, OutputTokens: 20, Success: false,
		},
	}})
	assert.Contains(t, buf.String(), "gpt-4o-mini")
	assert.Contains(t, buf.String(), "✗")
}

func TestPrintCostMarksUnknownModels(t *testing.T) {
	var buf bytes.Buffer
	printCost(&buf, []store.LLMUsage{{Key: "no-such-model", Calls: 1, InputTokens: 5, OutputTokens: 5}})
	assert.Contains(t, buf.String(), "TOTAL (partial)")
	assert.Contains(t, buf.String(), "Pricing unavailable for: no-such-model")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "-", orDash(""))
}
