// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/visitormatch/internal/auth"
	"github.com/tomtom215/visitormatch/internal/config"
	"github.com/tomtom215/visitormatch/internal/matching"
	"github.com/tomtom215/visitormatch/internal/models"
	"github.com/tomtom215/visitormatch/internal/testinfra"
)

// envelope mirrors models.APIResponse with the payload left undecoded.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		SetThreshold:          0.5,
		ProximityRadiusKm:     10,
		MaxPlausibleSpeedKmS:  0.35,
		DistanceCapKm:         1000,
		CreationWindowSeconds: 86400,
		ScoreCap:              100,
		Workers:               1,
		MaxCandidates:         3,
	}
}

type testServerOptions struct {
	maxBodyBytes int64
	rateLimit    int
	auth         *auth.Middleware
	checks       []ReadinessCheck
}

func newTestHandler(t *testing.T, opts testServerOptions) (*Handler, http.Handler) {
	t.Helper()

	handler := NewHandler(matching.NewEngine(testMatchingConfig()), &config.ServerConfig{MaxBodyBytes: opts.maxBodyBytes}, "test")
	for _, c := range opts.checks {
		handler.AddReadinessCheck(c)
	}

	chiCfg := DefaultChiMiddlewareConfig()
	chiCfg.CORSAllowedOrigins = []string{"https://shop.example.com"}
	chiCfg.RateLimitDisabled = opts.rateLimit == 0
	chiCfg.RateLimitRequests = opts.rateLimit
	chiCfg.RateLimitWindow = time.Minute

	return handler, NewRouter(handler, opts.auth, chiCfg).SetupChi()
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec, decodeEnvelope(t, rec)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func TestMatchFingerprint_IdenticalCandidate(t *testing.T) {
	t.Parallel()

	_, h := newTestHandler(t, testServerOptions{})
	rec, env := postJSON(t, h, "/api/v1/match/fingerprint", models.FingerprintMatchRequest{
		RequestID:            "req-fp-1",
		NewFingerprint:       testinfra.Fingerprint(),
		PreviousFingerprints: []*models.Fingerprint{testinfra.FirefoxOnWindows(), testinfra.Fingerprint()},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", env.Status)
	assert.Nil(t, env.Error)
	assert.Equal(t, 2, env.Metadata.Candidates)

	var resp models.FingerprintMatchResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "req-fp-1", resp.RequestID)
	assert.InDelta(t, 100.0, resp.MatchScore, 1e-9)
	assert.Equal(t, 1, resp.CandidateIndex)
	assert.NotEmpty(t, resp.MatchResults)
}

func TestMatchFingerprint_CandidatesCountsShortCircuitedRequest(t *testing.T) {
	t.Parallel()

	_, h := newTestHandler(t, testServerOptions{})
	rec, env := postJSON(t, h, "/api/v1/match/fingerprint", models.FingerprintMatchRequest{
		NewFingerprint:       testinfra.Fingerprint(),
		PreviousFingerprints: []*models.Fingerprint{testinfra.Fingerprint(), testinfra.FirefoxOnWindows(), testinfra.FirefoxOnWindows()},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, env.Metadata.Candidates)

	var resp models.FingerprintMatchResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 0, resp.CandidateIndex)
	assert.Equal(t, 1, resp.Evaluated)
}

func TestMatchFingerprint_RequestIDFromHeader(t *testing.T) {
	t.Parallel()

	_, h := newTestHandler(t, testServerOptions{})

	raw, err := json.Marshal(models.FingerprintMatchRequest{
		NewFingerprint:       testinfra.Fingerprint(),
		PreviousFingerprints: []*models.Fingerprint{testinfra.FirefoxOnWindows()},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/fingerprint", bytes.NewReader(raw))
	req.Header.Set("X-Request-ID", "upstream-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "upstream-42", rec.Header().Get("X-Request-ID"))

	var resp models.FingerprintMatchResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.Equal(t, "upstream-42", resp.RequestID)
	assert.Less(t, resp.MatchScore, 100.0)
}

func TestMatchVisitor_ImpossibleTravel(t *testing.T) {
	t.Parallel()

	_, h := newTestHandler(t, testServerOptions{})
	rec, env := postJSON(t, h, "/api/v1/match/visitor", models.VisitorMatchRequest{
		NewVisitor:       testinfra.VisitorInTokyo(),
		PreviousVisitors: []*models.VisitorProfile{testinfra.Visitor()},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.VisitorMatchResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.IPTimingRedFlag)
	assert.GreaterOrEqual(t, resp.MatchScore, 0.0)
	assert.LessOrEqual(t, resp.MatchScore, 100.0)
	assert.Positive(t, resp.Categories.Identity)
}

func TestMatchVisitor_SameVisitor(t *testing.T) {
	t.Parallel()

	_, h := newTestHandler(t, testServerOptions{})
	rec, env := postJSON(t, h, "/api/v1/match/visitor", models.VisitorMatchRequest{
		NewVisitor:       testinfra.Visitor(),
		PreviousVisitors: []*models.VisitorProfile{testinfra.Visitor()},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.VisitorMatchResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.False(t, resp.IPTimingRedFlag)
	assert.Positive(t, resp.MatchScore)
}

func TestMatchEndpoints_RejectBadRequests(t *testing.T) {
	t.Parallel()

	negative := -1.0
	tooMany := []*models.VisitorProfile{testinfra.Visitor(), testinfra.Visitor(), testinfra.Visitor(), testinfra.Visitor()}

	tests := []struct {
		name     string
		path     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{"empty body", "/api/v1/match/visitor", "", http.StatusBadRequest, ErrCodeInvalidJSON},
		{"malformed json", "/api/v1/match/visitor", `{"new_visitor":`, http.StatusBadRequest, ErrCodeInvalidJSON},
		{"unknown field", "/api/v1/match/fingerprint", `{"new_fingerprint":{},"previous_fingerprints":[{}],"surprise":1}`, http.StatusBadRequest, ErrCodeInvalidJSON},
		{"missing new visitor", "/api/v1/match/visitor", models.VisitorMatchRequest{
			PreviousVisitors: []*models.VisitorProfile{testinfra.Visitor()},
		}, http.StatusBadRequest, ErrCodeValidation},
		{"empty candidates", "/api/v1/match/fingerprint", models.FingerprintMatchRequest{
			NewFingerprint:       testinfra.Fingerprint(),
			PreviousFingerprints: []*models.Fingerprint{},
		}, http.StatusBadRequest, ErrCodeValidation},
		{"negative payment weight", "/api/v1/match/visitor", models.VisitorMatchRequest{
			NewVisitor:       testinfra.Visitor(),
			PreviousVisitors: []*models.VisitorProfile{testinfra.Visitor()},
			Weights:          &models.VisitorWeights{Payment: &negative},
		}, http.StatusBadRequest, ErrCodeValidation},
		{"over candidate limit", "/api/v1/match/visitor", models.VisitorMatchRequest{
			NewVisitor:       testinfra.Visitor(),
			PreviousVisitors: tooMany,
		}, http.StatusBadRequest, ErrCodeValidation},
	}

	_, h := newTestHandler(t, testServerOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := postJSON(t, h, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, "error", env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestMatchEndpoints_BodyLimits(t *testing.T) {
	t.Parallel()

	_, h := newTestHandler(t, testServerOptions{maxBodyBytes: 64})

	body := `{"new_visitor":{"ips":[]},"previous_visitors":[` + strings.Repeat(`{},`, 40) + `{}]}`
	rec, env := postJSON(t, h, "/api/v1/match/visitor", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeBodyTooLarge, env.Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/visitor", strings.NewReader("new_visitor=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRespondEngineError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"invalid input", models.InvalidInputf("bad timestamp"), http.StatusBadRequest, ErrCodeValidation},
		{"missing field", models.MissingFieldError("new_fingerprint"), http.StatusBadRequest, ErrCodeValidation},
		{"canceled", context.Canceled, statusClientClosedRequest, ErrCodeCanceled},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			respondEngineError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
			if tt.wantCode == http.StatusInternalServerError {
				assert.NotContains(t, env.Error.Message, "boom")
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\x0ab\x0d`, sanitizeLogValue("a\nb\r"))
	assert.Equal(t, "plain", sanitizeLogValue("plain"))
}
