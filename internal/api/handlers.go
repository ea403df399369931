package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/store"
)

type handlers struct {
	auth     *auth.Service
	users    store.UserRepo
	practice Practice
}

// maxBody bounds JSON request bodies.
const maxBody = 1 << 20

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /auth/register {"username": "...", "password": "..."}
func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decode(w, r, &req) {
		return
	}
	u, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResp(u))
}

// POST /auth/login {"username": "...", "password": "..."}
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decode(w, r, &req) {
		return
	}
	tok, u, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResp{AccessToken: tok, User: toUserResp(u)})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserID(r.Context())
	u, err := h.users.ByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResp(u))
}

// POST /practice {"topic": "...", "difficulty": 3}
func (h *handlers) startPractice(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if !decode(w, r, &req) {
		return
	}
	level, err := parseDifficulty(req.Difficulty)
	if err != nil {
		respondError(w, err)
		return
	}
	id, _ := auth.UserID(r.Context())
	sess, err := h.practice.Start(r.Context(), id, req.Topic, level)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSessionResp(sess))
}

func (h *handlers) getPractice(w http.ResponseWriter, r *http.Request) {
	textID, ok := textIDParam(w, r)
	if !ok {
		return
	}
	id, _ := auth.UserID(r.Context())
	sess, err := h.practice.Load(r.Context(), id, textID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSessionResp(sess))
}

// POST /practice/{textID}/submit {"answers": ["...", ...]}
func (h *handlers) submitPractice(w http.ResponseWriter, r *http.Request) {
	textID, ok := textIDParam(w, r)
	if !ok {
		return
	}
	var req submitReq
	if !decode(w, r, &req) {
		return
	}
	id, _ := auth.UserID(r.Context())
	out, err := h.practice.Submit(r.Context(), id, textID, req.Answers)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOutcomeResp(out))
}

// GET /progress?limit=N
func (h *handlers) progress(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	id, _ := auth.UserID(r.Context())
	rep, err := h.practice.Progress(r.Context(), id, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProgressResp(rep))
}

func textIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "textID"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "bad text id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

var errInvalidDifficulty = errors.New("invalid difficulty")

// parseDifficulty reads a level number or label. Empty and null mean the
// user's current level.
func parseDifficulty(raw json.RawMessage) (leveling.Level, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return leveling.Level(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: want a level number or label", errInvalidDifficulty)
	}
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	l, err := leveling.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidDifficulty, err)
	}
	return l, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toUserResp(u *store.User) userResp {
	return userResp{
		ID:         u.ID,
		Username:   u.Username,
		Level:      u.Level,
		LevelLabel: leveling.Level(u.Level).Label(),
	}
}
