// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/visitormatch/internal/config"
	"github.com/tomtom215/visitormatch/internal/models"
	"github.com/tomtom215/visitormatch/internal/testinfra"
)

func startProcessor(t *testing.T, cfg config.EventsConfig) (*Processor, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	p, err := NewProcessor(ctx, cfg, testEngine(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Start(ctx))
	return p, ctx
}

func receiveResult(t *testing.T, ctx context.Context, results <-chan *message.Message) (*message.Message, *MatchResult) {
	t.Helper()

	select {
	case msg := <-results:
		require.NotNil(t, msg)
		msg.Ack()
		result, err := DeserializeResult(msg.Payload)
		require.NoError(t, err)
		return msg, result
	case <-ctx.Done():
		t.Fatal("timed out waiting for match result")
		return nil, nil
	}
}

func TestProcessor_GoChannelRoundTrip(t *testing.T) {
	t.Parallel()

	p, ctx := startProcessor(t, testEventsConfig())
	require.NoError(t, p.Ready(ctx))
	assert.Equal(t, "events", p.Name())

	fpResults, err := p.Subscribe(ctx, p.Topics().FingerprintResults)
	require.NoError(t, err)
	visitorResults, err := p.Subscribe(ctx, p.Topics().VisitorResults)
	require.NoError(t, err)

	require.NoError(t, p.SubmitFingerprint(ctx, &models.FingerprintMatchRequest{
		RequestID:            "fp-async",
		NewFingerprint:       testinfra.Fingerprint(),
		PreviousFingerprints: []*models.Fingerprint{testinfra.Fingerprint()},
	}))
	msg, result := receiveResult(t, ctx, fpResults)
	assert.Equal(t, "fp-async", result.RequestID)
	assert.Equal(t, StatusSuccess, result.Status)
	require.NotNil(t, result.Fingerprint)
	assert.InDelta(t, 100.0, result.Fingerprint.MatchScore, 1e-9)
	assert.NotEmpty(t, msg.Metadata.Get("correlation_id"))

	require.NoError(t, p.SubmitVisitor(ctx, &models.VisitorMatchRequest{
		RequestID:        "v-async",
		NewVisitor:       testinfra.Visitor(),
		PreviousVisitors: []*models.VisitorProfile{},
	}))
	_, result = receiveResult(t, ctx, visitorResults)
	assert.Equal(t, "v-async", result.RequestID)
	assert.True(t, result.Failed())
	assert.Equal(t, "VALIDATION_ERROR", result.Error.Code)
}

func TestProcessor_Lifecycle(t *testing.T) {
	t.Parallel()

	p, ctx := startProcessor(t, testEventsConfig())
	assert.True(t, p.IsRunning())
	assert.Error(t, p.Start(ctx), "second start must fail while running")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.Shutdown(shutdownCtx)

	assert.False(t, p.IsRunning())
	assert.ErrorIs(t, p.Ready(ctx), ErrNotRunning)

	// Supervisors restart the processor after a failure.
	require.NoError(t, p.Start(ctx))
	assert.True(t, p.IsRunning())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Start(ctx), ErrProcessorClosed)
}

func TestNewProcessor_UnknownTransport(t *testing.T) {
	t.Parallel()

	cfg := testEventsConfig()
	cfg.Transport = "kafka"

	_, err := NewProcessor(context.Background(), cfg, testEngine(), nil)
	assert.ErrorIs(t, err, ErrUnknownTransport)
}
