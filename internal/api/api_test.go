package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/passage"
	"github.com/abhisek/lectio/internal/practice"
	"github.com/abhisek/lectio/internal/questiongen"
	"github.com/abhisek/lectio/internal/store"
)

const passageText = "# Tides\n\nThe moon pulls the oceans. Tides rise and fall twice a day."

const questionsJSON = `{"questions": [
  {"question": "What pulls the oceans?", "options": ["the moon", "the wind"], "correct": "the moon", "category": "vocabulary"},
  {"question": "How often do tides rise?", "options": ["twice a day", "once a year"], "correct": "twice a day", "category": "inference"}
]}`

type testServer struct {
	srv  *httptest.Server
	mock *llm.MockProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := llm.NewMockProvider()
	authSvc := auth.NewService(s.UserRepo(), auth.Config{
		Secret:     "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	practiceSvc := practice.NewService(practice.Deps{
		Users:     s.UserRepo(),
		Texts:     s.TextRepo(),
		Attempts:  s.AttemptRepo(),
		Progress:  s.ProgressRepo(),
		Passages:  passage.NewService(mock, passage.DefaultConfig()),
		Questions: questiongen.New(mock, questiongen.DefaultConfig()),
		Policy:    leveling.DefaultPolicy(),
	})

	srv := httptest.NewServer(NewRouter(Options{
		Auth:     authSvc,
		Users:    s.UserRepo(),
		Practice: practiceSvc,
		Timeout:  5 * time.Second,
	}))
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, mock: mock}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()
	creds := credentialsReq{Username: username, Password: "secret123"}
	resp := ts.do(t, http.MethodPost, "/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[loginResp](t, resp).AccessToken
}

func (ts *testServer) queueText() {
	ts.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(passageText)})
	ts.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(questionsJSON)})
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "maria")
	assert.NotEmpty(t, token)

	resp := ts.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[userResp](t, resp)
	assert.Equal(t, "maria", me.Username)
	assert.Equal(t, 1, me.Level)
	assert.Equal(t, "beginner", me.LevelLabel)
}

func TestRegisterDuplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "maria")

	resp := ts.do(t, http.MethodPost, "/auth/register", "", credentialsReq{Username: "maria", Password: "other-pass"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "duplicate_user", decodeBody[errorResp](t, resp).Kind)
}

func TestRegisterInvalidInput(t *testing.T) {
	ts := newTestServer(t)
	tests := []credentialsReq{
		{Username: "x", Password: "secret123"},
		{Username: "maria", Password: strings.Repeat("s", 73)},
	}
	for _, creds := range tests {
		resp := ts.do(t, http.MethodPost, "/auth/register", "", creds)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_input", decodeBody[errorResp](t, resp).Kind)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "maria")

	resp := ts.do(t, http.MethodPost, "/auth/login", "", credentialsReq{Username: "maria", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/me", "/progress"} {
		resp := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
	resp := ts.do(t, http.MethodGet, "/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPracticeFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "maria")
	ts.queueText()

	resp := ts.do(t, http.MethodPost, "/practice", token, startReq{Topic: "tides"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess := decodeBody[sessionResp](t, resp)
	assert.Equal(t, "Tides", sess.Title)
	assert.Equal(t, "tides", sess.Topic)
	require.Len(t, sess.Questions, 2)
	assert.Equal(t, "What pulls the oceans?", sess.Questions[0].Question)

	resp = ts.do(t, http.MethodGet, fmt.Sprintf("/practice/%d", sess.TextID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sess.TextID, decodeBody[sessionResp](t, resp).TextID)

	submit := submitReq{Answers: []string{"the moon", "once a year"}}
	resp = ts.do(t, http.MethodPost, fmt.Sprintf("/practice/%d/submit", sess.TextID), token, submit)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[outcomeResp](t, resp)
	assert.Equal(t, 1, out.Correct)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 50.0, out.Percent)
	require.Len(t, out.Attempts, 2)
	assert.True(t, out.Attempts[0].IsRight)
	assert.Equal(t, "twice a day", out.Attempts[1].Correct)
	assert.Equal(t, "insufficient-data", out.Reason)
	assert.Nil(t, out.LevelChange)

	resp = ts.do(t, http.MethodPost, fmt.Sprintf("/practice/%d/submit", sess.TextID), token, submit)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/progress", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decodeBody[progressResp](t, resp)
	assert.Equal(t, 1, rep.Texts)
	assert.Equal(t, 50.0, rep.Average)
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, "tides", rep.Entries[0].Topic)
}

func TestPracticeChosenDifficulty(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		level      int
		label      string
	}{
		{"label", `"intermediate"`, 3, "intermediate"},
		{"number", `4`, 4, "upper-intermediate"},
		{"clamped", `12`, 5, "advanced"},
		{"null keeps current", `null`, 1, "beginner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			token := ts.login(t, "maria")
			ts.queueText()

			req := startReq{Topic: "tides", Difficulty: json.RawMessage(tt.difficulty)}
			resp := ts.do(t, http.MethodPost, "/practice", token, req)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			sess := decodeBody[sessionResp](t, resp)
			assert.Equal(t, tt.level, sess.Level)
			assert.Equal(t, tt.label, sess.LevelLabel)
			assert.Contains(t, ts.mock.Calls[0].Messages[0].Content, tt.label)

			resp = ts.do(t, http.MethodGet, "/me", token, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, 1, decodeBody[userResp](t, resp).Level, "choosing a difficulty keeps the stored level")
		})
	}
}

func TestPracticeInvalidDifficulty(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "maria")

	for _, d := range []string{`"expert"`, `2.5`, `{"level": 2}`} {
		resp := ts.do(t, http.MethodPost, "/practice", token, startReq{Topic: "tides", Difficulty: json.RawMessage(d)})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, d)
		assert.Equal(t, "invalid_input", decodeBody[errorResp](t, resp).Kind, d)
	}
	assert.Empty(t, ts.mock.Calls)
}

func TestSessionDoesNotLeakAnswers(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "maria")
	ts.queueText()

	resp := ts.do(t, http.MethodPost, "/practice", token, startReq{Topic: "tides"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	qs := raw["questions"].([]any)
	for _, q := range qs {
		_, ok := q.(map[string]any)["correct"]
		assert.False(t, ok)
	}
}

func TestPracticeOtherUsersText(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.login(t, "maria")
	other := ts.login(t, "jonas")
	ts.queueText()

	resp := ts.do(t, http.MethodPost, "/practice", owner, startReq{Topic: "tides"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess := decodeBody[sessionResp](t, resp)

	resp = ts.do(t, http.MethodGet, fmt.Sprintf("/practice/%d", sess.TextID), other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPracticeErrors(t *testing.T) {
	tests := []struct {
		name   string
		topic  string
		queue  []llm.MockResponse
		status int
		kind   string
	}{
		{
			name:   "empty topic",
			topic:  "  ",
			status: http.StatusBadRequest,
			kind:   "invalid_input",
		},
		{
			name:   "network failure",
			topic:  "tides",
			queue:  []llm.MockResponse{{Err: &llm.ErrNetwork{Err: fmt.Errorf("dial tcp: refused")}}},
			status: http.StatusBadGateway,
			kind:   "network_failure",
		},
		{
			name:   "upstream failure",
			topic:  "tides",
			queue:  []llm.MockResponse{{Err: &llm.ErrUpstream{StatusCode: 500, Err: fmt.Errorf("boom")}}},
			status: http.StatusBadGateway,
			kind:   "upstream_failure",
		},
		{
			name:  "malformed questions",
			topic: "tides",
			queue: []llm.MockResponse{
				{Content: json.RawMessage(passageText)},
				{Content: json.RawMessage("Q1: what pulls the oceans? A: the moon")},
			},
			status: http.StatusBadGateway,
			kind:   "malformed_response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			token := ts.login(t, "maria")
			for _, r := range tt.queue {
				ts.mock.AddResponse(r)
			}

			resp := ts.do(t, http.MethodPost, "/practice", token, startReq{Topic: tt.topic})
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.kind, decodeBody[errorResp](t, resp).Kind)
		})
	}
}

func TestBadTextID(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "maria")

	resp := ts.do(t, http.MethodGet, "/practice/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/practice/999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
