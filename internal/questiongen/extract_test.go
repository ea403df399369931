package questiongen

import (
	"errors"
	"strings"
	"testing"
)

const fiveQuestions = `[
  {"question": "What does \"arid\" mean?", "options": ["dry", "wet", "cold", "loud"], "correct": "dry", "category": "vocabulary"},
  {"question": "What is a \"dune\"?", "options": ["a hill of sand", "a lake", "a cave", "a tree"], "correct": "a hill of sand", "category": "vocabulary"},
  {"question": "Why do camels store fat?", "options": ["for energy", "for warmth", "for speed", "for color"], "correct": "for energy", "category": "inference"},
  {"question": "What can we infer about rain?", "options": ["it is rare", "it is daily", "it is salty", "it is warm"], "correct": "it is rare", "category": "inference"},
  {"question": "Is desert tourism sustainable?", "options": ["yes", "no", "only at night", "it depends on water use"], "correct": "it depends on water use", "category": "critical-thinking"}
]`

func texts(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}

func TestExtract_PlainArray(t *testing.T) {
	res, err := Extract(fiveQuestions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(res.Questions))
	}
	if res.Degraded {
		t.Error("full set should not be degraded")
	}
	if res.Expected != DefaultCount {
		t.Errorf("expected = %d, want %d", res.Expected, DefaultCount)
	}
	q := res.Questions[4]
	if q.Category != CategoryCriticalThinking || q.Correct != "it depends on water use" {
		t.Errorf("unexpected last question: %+v", q)
	}
}

func TestExtract_CodeFencesAndProse(t *testing.T) {
	raw := "Sure! Here are your questions:\n\n```json\n" + fiveQuestions + "\n```\n\nLet me know if you need more [or fewer] questions."
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 5 {
		t.Errorf("got %d questions, want 5", len(res.Questions))
	}
}

func TestExtract_StopsAtFirstBalancedClosure(t *testing.T) {
	raw := `[{"question": "Q1?", "options": ["a", "b"], "correct": "a"}] trailing note with a stray ] and }`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 1 || res.Questions[0].Text != "Q1?" {
		t.Errorf("unexpected questions: %+v", res.Questions)
	}
}

func TestExtract_BracketsInsideStrings(t *testing.T) {
	raw := `[{"question": "What does [sic] mean in \"the {old} text\"?", "options": ["as written", "wrong"], "correct": "as written"}]`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	if !strings.Contains(res.Questions[0].Text, "[sic]") {
		t.Errorf("text = %q", res.Questions[0].Text)
	}
}

func TestExtract_WrappedObject(t *testing.T) {
	raw := `{"questions": ` + fiveQuestions + `}`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 5 {
		t.Errorf("got %d questions, want 5", len(res.Questions))
	}
}

func TestExtract_SingleObject(t *testing.T) {
	raw := `{"question": "Main idea?", "options": ["deserts", "oceans", "forests"], "correct": "deserts"}`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	if !res.Degraded {
		t.Error("one of five should be degraded")
	}
}

func TestExtract_DropsInvalidPreservingOrder(t *testing.T) {
	raw := `[
	  {"question": "Keep 1", "options": ["a", "b", "c", "d"], "correct": "a"},
	  {"question": "No options", "correct": "a"},
	  {"question": "Keep 2", "options": ["a", "b", "c", "d"], "correct": "d"},
	  {"question": "Wrong answer", "options": ["a", "b", "c", "d"], "correct": "e"},
	  {"options": ["a", "b"], "correct": "a"},
	  {"question": "Too many", "options": ["a", "b", "c", "d", "e"], "correct": "a"},
	  {"question": "Keep 3", "options": ["x", "y"], "correct": "y"},
	  "not an object"
	]`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := texts(res.Questions)
	want := []string{"Keep 1", "Keep 2", "Keep 3"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("survivors = %v, want %v", got, want)
	}
	if !res.Degraded {
		t.Error("expected degraded result")
	}

	var dropped []int
	for _, d := range res.Dropped {
		dropped = append(dropped, d.Index)
		if d.Err == nil {
			t.Errorf("rejection %d has no reason", d.Index)
		}
	}
	wantDropped := []int{1, 3, 4, 5, 7}
	if len(dropped) != len(wantDropped) {
		t.Fatalf("dropped = %v, want %v", dropped, wantDropped)
	}
	for i := range wantDropped {
		if dropped[i] != wantDropped[i] {
			t.Errorf("dropped = %v, want %v", dropped, wantDropped)
			break
		}
	}
}

func TestExtract_FieldAliases(t *testing.T) {
	raw := `[
	  {"text": "Alias 1", "choices": ["uno", "dos"], "answer": "dos"},
	  {"pregunta": "Alias 2", "opciones": ["si", "no"], "respuesta_correcta": "si"},
	  {"question": "Alias 3", "options": {"B": "second", "A": "first"}, "correct_option": "first"}
	]`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 3 {
		t.Fatalf("got %d questions, want 3 (dropped: %+v)", len(res.Questions), res.Dropped)
	}
	if res.Questions[0].Correct != "dos" || res.Questions[1].Correct != "si" {
		t.Errorf("aliases not applied: %+v", res.Questions)
	}
	if opts := res.Questions[2].Options; opts[0] != "first" || opts[1] != "second" {
		t.Errorf("keyed options not ordered by key: %v", opts)
	}
}

func TestExtract_CategoryDefaults(t *testing.T) {
	raw := `[
	  {"question": "Q1", "options": ["a", "b"], "correct": "a"},
	  {"question": "Q2", "options": ["a", "b"], "correct": "a", "category": "Vocab"},
	  {"question": "Q3", "options": ["a", "b"], "correct": "a", "category": "critical thinking"},
	  {"question": "Q4", "options": ["a", "b"], "correct": "a", "category": "trivia"},
	  {"question": "Q5", "options": ["a", "b"], "correct": "a"}
	]`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Category{
		CategoryVocabulary,
		CategoryVocabulary,
		CategoryCriticalThinking,
		CategoryInference,
		CategoryCriticalThinking,
	}
	for i, q := range res.Questions {
		if q.Category != want[i] {
			t.Errorf("question %d category = %q, want %q", i, q.Category, want[i])
		}
	}
}

func TestExtract_SkipsUselessLeadingSpan(t *testing.T) {
	raw := `Here are [5] questions: [{"question": "Q", "options": ["a", "b"], "correct": "b"}]`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 1 {
		t.Errorf("got %d questions, want 1", len(res.Questions))
	}
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t "},
		{"only fences", "```json\n```"},
		{"prose", "I'm sorry, I cannot help with that."},
		{"free text quiz", "1. What is arid?\nA) dry\nB) wet\nAnswer: A\n\n2. Why?\nA) x\nB) y\nAnswer: B"},
		{"truncated", `[{"question": "Q", "options": ["a", "b"`},
		{"trailing comma", `[{"question": "Q", "options": ["a", "b"], "correct": "a",}]`},
		{"empty array", `[]`},
		{"all invalid", `[{"question": "Q", "options": ["a"], "correct": "a"}]`},
		{"numbers", `[1, 2, 3]`},
		{"unrelated object", `{"status": "ok"}`},
		{"mismatched brackets", `[{"question": "Q"]}`},
		{"trailing comma in set", `[{"question": "Q1", "options": ["a", "b"], "correct": "a"}, {"question": "Q2", "options": ["c", "d"], "correct": "c"},]`},
		{"unquoted key in set", `[{question: "Q1", "options": ["a", "b"], "correct": "a"}, {"question": "Q2", "options": ["c", "d"], "correct": "c"}]`},
		{"truncated set", `[{"question": "Q1", "options": ["a", "b"], "correct": "a"}, {"question": "Q2", "opt`},
		{"wrapped set with bad element", `{"questions": [{"question": "Q1", "options": ["a", "b"], "correct": "a"} {"question": "Q2"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract(tt.raw)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("err = %v, want ErrMalformedResponse", err)
			}
			if res.Questions == nil {
				t.Error("questions should be an empty, non-nil slice")
			}
			if len(res.Questions) != 0 {
				t.Errorf("got %d questions, want 0", len(res.Questions))
			}
		})
	}
}

func TestExtract_SkipsPastRejectedSpan(t *testing.T) {
	raw := `Scores: [5, 3] and notes {"status": "draft"} then [{"question": "Q", "options": ["a", "b"], "correct": "a"}]`
	res, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := texts(res.Questions); len(got) != 1 || got[0] != "Q" {
		t.Errorf("questions = %v, want [Q]", got)
	}
}

func TestExtract_AllInvalidReportsRejections(t *testing.T) {
	res, err := Extract(`[{"question": "Q", "options": ["a", "b"], "correct": "c"}]`)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
	if len(res.Dropped) != 1 || res.Dropped[0].Err.Validator != "answer" {
		t.Errorf("dropped = %+v", res.Dropped)
	}
}

func TestExtractor_ExpectedCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 2
	ex := NewExtractor(cfg)

	res, err := ex.Extract(`[{"question": "Q1", "options": ["a", "b"], "correct": "a"}, {"question": "Q2", "options": ["a", "b"], "correct": "b"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Expected != 2 || res.Degraded {
		t.Errorf("expected=%d degraded=%v, want 2/false", res.Expected, res.Degraded)
	}
}

func TestMatchClose(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`[]`, 1},
		{`{}`, 1},
		{`[{}] tail]`, 3},
		{`["]"]`, 4},
		{`["\"]"]`, 6},
		{`[`, -1},
		{`[}`, -1},
	}
	for _, tt := range tests {
		if got := matchClose(tt.in, 0); got != tt.want {
			t.Errorf("matchClose(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
