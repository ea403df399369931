package questiongen

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []Question{
		{
			Text:     "What does \"arid\" mean?",
			Options:  []string{"wet", "dry", "cold", "loud"},
			Correct:  "dry",
			Category: CategoryVocabulary,
		},
		{
			Text:     "Which is true?",
			Options:  []string{"B comes first", "A comes second"},
			Correct:  "A comes second",
			Category: CategoryInference,
		},
		{
			Text:     "¿Es sostenible?",
			Options:  []string{"sí", "no", "depende"},
			Correct:  "depende",
			Category: CategoryCriticalThinking,
		},
	}

	for _, want := range tests {
		data, err := EncodeQuestion(want)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := DecodeQuestion(data)
		if err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
		}
	}
}

func TestEncodeQuestion_WireFields(t *testing.T) {
	data, err := EncodeQuestion(Question{Text: "Q", Options: []string{"a", "b"}, Correct: "a", Category: CategoryInference})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"question":"Q","options":["a","b"],"correct":"a","category":"inference"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestDecodeQuestion_Invalid(t *testing.T) {
	tests := []string{
		`not json`,
		`{"question": "Q", "options": ["a", "b"]}`,
		`{"question": "Q", "options": ["a", "b"], "correct": "z"}`,
		`{"question": 7, "options": ["a", "b"], "correct": "a"}`,
	}
	for _, in := range tests {
		if _, err := DecodeQuestion([]byte(in)); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("DecodeQuestion(%s): err = %v, want ErrMalformedResponse", in, err)
		}
	}
}

func TestQuestion_CorrectIndex(t *testing.T) {
	q := Question{Options: []string{"a", "b", "c"}, Correct: "c"}
	if got := q.CorrectIndex(); got != 2 {
		t.Errorf("CorrectIndex = %d, want 2", got)
	}
	q.Correct = "z"
	if got := q.CorrectIndex(); got != -1 {
		t.Errorf("CorrectIndex = %d, want -1", got)
	}
}
