package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/passage"
	"github.com/abhisek/lectio/internal/practice"
	"github.com/abhisek/lectio/internal/questiongen"
	"github.com/abhisek/lectio/internal/store"
)

type errorResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error to an HTTP status and a stable kind string.
func classify(err error) (int, string) {
	var (
		rateErr *llm.ErrRateLimit
		upErr   *llm.ErrUpstream
		netErr  *llm.ErrNetwork
		invErr  *llm.ErrInvalidResponse
		maxErr  *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.Is(err, store.ErrDuplicateUser):
		return http.StatusConflict, "duplicate_user"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, auth.ErrInvalidInput), errors.Is(err, practice.ErrEmptyTopic),
		errors.Is(err, errInvalidDifficulty):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, practice.ErrAlreadySubmitted):
		return http.StatusConflict, "already_submitted"
	case errors.As(err, &rateErr):
		return http.StatusServiceUnavailable, "rate_limited"
	case errors.As(err, &upErr):
		return http.StatusBadGateway, "upstream_failure"
	case errors.As(err, &netErr):
		return http.StatusBadGateway, "network_failure"
	case errors.Is(err, questiongen.ErrMalformedResponse), errors.Is(err, passage.ErrEmptyPassage),
		errors.As(err, &invErr), errors.As(err, &maxErr):
		return http.StatusBadGateway, "malformed_response"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		msg = "internal error"
	}
	respondJSON(w, status, errorResp{Error: msg, Kind: kind})
}
