package questiongen

import (
	"encoding/json"
	"fmt"
	"sort"
)

// wireQuestion is the canonical JSON form of a Question.
type wireQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
	Category Category `json:"category,omitempty"`
}

// Field aliases seen in model output, in lookup order.
var (
	textKeys     = []string{"question", "text", "question_text", "pregunta"}
	optionKeys   = []string{"options", "choices", "opciones"}
	correctKeys  = []string{"correct", "answer", "correct_option", "correct_answer", "respuesta_correcta"}
	categoryKeys = []string{"category", "type", "categoria"}
	setKeys      = []string{"questions", "preguntas"}
)

// EncodeQuestion returns the wire form of q.
func EncodeQuestion(q Question) ([]byte, error) {
	return json.Marshal(wireQuestion{
		Question: q.Text,
		Options:  q.Options,
		Correct:  q.Correct,
		Category: q.Category,
	})
}

// DecodeQuestion parses and validates one question in wire form. Field
// aliases are accepted. Errors match ErrMalformedResponse.
func DecodeQuestion(data []byte) (Question, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Question{}, malformed("decode question: %v", err)
	}
	q, verr := decodeFields(fields)
	if verr != nil {
		return Question{}, fmt.Errorf("%w: %v", ErrMalformedResponse, verr)
	}
	for _, v := range DefaultConfig().Validators {
		if verr := v.Validate(&q, 0); verr != nil {
			return Question{}, fmt.Errorf("%w: %v", ErrMalformedResponse, verr)
		}
	}
	return q, nil
}

// decodeFields maps a decoded JSON object onto a Question. It checks only
// that fields have the right JSON types; content rules belong to validators.
func decodeFields(fields map[string]json.RawMessage) (Question, *ValidationError) {
	var q Question

	raw, ok := lookup(fields, textKeys)
	if !ok {
		return q, decodeError("missing question text")
	}
	if err := json.Unmarshal(raw, &q.Text); err != nil {
		return q, decodeError("question text is not a string")
	}

	raw, ok = lookup(fields, optionKeys)
	if !ok {
		return q, decodeError("missing options")
	}
	opts, err := decodeOptions(raw)
	if err != nil {
		return q, decodeError(err.Error())
	}
	q.Options = opts

	raw, ok = lookup(fields, correctKeys)
	if !ok {
		return q, decodeError("missing correct option")
	}
	if err := json.Unmarshal(raw, &q.Correct); err != nil {
		return q, decodeError("correct option is not a string")
	}

	if raw, ok := lookup(fields, categoryKeys); ok {
		var c string
		if json.Unmarshal(raw, &c) == nil {
			q.Category = Category(c)
		}
	}

	return q, nil
}

// decodeOptions accepts an array of strings or an object keyed by option
// letter ({"A": "...", "B": "..."}), which is read in key order.
func decodeOptions(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var keyed map[string]string
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("options must be a list of strings")
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = keyed[k]
	}
	return out, nil
}

func lookup(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func decodeError(msg string) *ValidationError {
	return &ValidationError{Validator: "decode", Message: msg, Retryable: true}
}
