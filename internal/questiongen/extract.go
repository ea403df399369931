package questiongen

import (
	"encoding/json"
	"regexp"
	"strings"
)

// maxCandidates bounds how many bracketed spans are tried per response.
const maxCandidates = 32

var fenceRe = regexp.MustCompile("```[A-Za-z0-9_-]*")

// Extractor turns raw model output into validated questions.
type Extractor struct {
	validators []Validator
	expected   int
}

// NewExtractor creates an Extractor using cfg's validators and count.
func NewExtractor(cfg Config) *Extractor {
	expected := cfg.Count
	if expected <= 0 {
		expected = DefaultCount
	}
	return &Extractor{validators: cfg.Validators, expected: expected}
}

var defaultExtractor = NewExtractor(DefaultConfig())

// Extract runs the default extractor on raw.
func Extract(raw string) (Result, error) {
	return defaultExtractor.Extract(raw)
}

// Extract locates the JSON payload in raw and returns the questions that
// pass validation, in their original order.
//
// The payload may be an array of questions, an object with a "questions"
// array, or a single question object, optionally wrapped in code fences and
// surrounded by prose. Each bracketed span is cut at its first balanced
// closure and parsed as a whole; spans are tried in order until one yields a
// valid question. Spans nested inside a rejected one are never tried.
//
// When nothing usable is found the result holds an empty, non-nil slice and
// the error matches ErrMalformedResponse.
func (e *Extractor) Extract(raw string) (Result, error) {
	res := Result{Questions: []Question{}, Expected: e.expected}

	text := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if text == "" {
		return res, malformed("empty response")
	}

	var (
		sawJSON  bool
		rejected []Rejection
	)
	for i, pos := 0, 0; i < maxCandidates; i++ {
		start := indexOpener(text, pos)
		if start < 0 {
			break
		}
		end := matchClose(text, start)
		if end < 0 {
			// Unbalanced spans run to the end of the text; anything nested
			// in them belongs to the broken payload.
			break
		}
		pos = end + 1

		elems, ok := elements(json.RawMessage(text[start : end+1]))
		if !ok {
			continue
		}
		sawJSON = true

		questions, dropped := e.validate(elems)
		if len(questions) > 0 {
			res.Questions = questions
			res.Dropped = dropped
			res.Degraded = len(questions) < e.expected
			return res, nil
		}
		if rejected == nil {
			rejected = dropped
		}
	}

	res.Dropped = rejected
	if !sawJSON {
		return res, malformed("no JSON payload found")
	}
	return res, malformed("no valid questions (%d dropped)", len(rejected))
}

func (e *Extractor) validate(elems []json.RawMessage) ([]Question, []Rejection) {
	var (
		out     []Question
		dropped []Rejection
	)
	for i, raw := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			dropped = append(dropped, Rejection{Index: i, Err: decodeError("element is not an object")})
			continue
		}
		q, verr := decodeFields(fields)
		if verr == nil {
			for _, v := range e.validators {
				if verr = v.Validate(&q, i); verr != nil {
					break
				}
			}
		}
		if verr != nil {
			dropped = append(dropped, Rejection{Index: i, Err: verr})
			continue
		}
		out = append(out, q)
	}
	return out, dropped
}

// elements parses a candidate span and returns its question elements.
func elements(span json.RawMessage) ([]json.RawMessage, bool) {
	switch span[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(span, &list); err != nil || len(list) == 0 {
			return nil, false
		}
		return list, true
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(span, &fields); err != nil {
			return nil, false
		}
		if set, ok := lookup(fields, setKeys); ok {
			var list []json.RawMessage
			if err := json.Unmarshal(set, &list); err != nil || len(list) == 0 {
				return nil, false
			}
			return list, true
		}
		if _, ok := lookup(fields, textKeys); ok {
			return []json.RawMessage{span}, true
		}
	}
	return nil, false
}

func indexOpener(s string, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.IndexAny(s[from:], "[{")
	if i < 0 {
		return -1
	}
	return from + i
}

// matchClose returns the index of the bracket closing the one at start, or
// -1 if the span is unbalanced. Brackets inside JSON strings are ignored.
func matchClose(s string, start int) int {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')
		case ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
