// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJetStream records stream management calls.
type fakeJetStream struct {
	lookupErr error
	createErr error
	created   []jetstream.StreamConfig
	updated   []jetstream.StreamConfig
}

func (f *fakeJetStream) Stream(_ context.Context, _ string) (jetstream.Stream, error) {
	return nil, f.lookupErr
}

func (f *fakeJetStream) CreateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.created = append(f.created, cfg)
	return nil, f.createErr
}

func (f *fakeJetStream) UpdateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.updated = append(f.updated, cfg)
	return nil, nil
}

func testStreamConfig() StreamConfig {
	cfg := testEventsConfig()
	return DefaultStreamConfig(TopicsFromConfig(&cfg))
}

func TestNewStreamInitializer_Validation(t *testing.T) {
	t.Parallel()

	cfg := testStreamConfig()

	_, err := NewStreamInitializer(nil, &cfg)
	assert.Error(t, err)

	_, err = NewStreamInitializer(&fakeJetStream{}, nil)
	assert.Error(t, err)

	empty := cfg
	empty.Subjects = nil
	_, err = NewStreamInitializer(&fakeJetStream{}, &empty)
	assert.Error(t, err)

	si, err := NewStreamInitializer(&fakeJetStream{}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, StreamName, si.Config().Name)
}

func TestEnsureStream_CreatesMissingStream(t *testing.T) {
	t.Parallel()

	js := &fakeJetStream{lookupErr: jetstream.ErrStreamNotFound}
	cfg := testStreamConfig()
	si, err := NewStreamInitializer(js, &cfg)
	require.NoError(t, err)

	_, err = si.EnsureStream(context.Background())
	require.NoError(t, err)

	require.Len(t, js.created, 1)
	assert.Empty(t, js.updated)
	created := js.created[0]
	assert.Equal(t, StreamName, created.Name)
	assert.ElementsMatch(t, cfg.Subjects, created.Subjects)
	assert.Equal(t, 2*time.Minute, created.Duplicates)
	assert.Equal(t, jetstream.LimitsPolicy, created.Retention)
}

func TestEnsureStream_UpdatesExistingStream(t *testing.T) {
	t.Parallel()

	js := &fakeJetStream{}
	cfg := testStreamConfig()
	si, err := NewStreamInitializer(js, &cfg)
	require.NoError(t, err)

	_, err = si.EnsureStream(context.Background())
	require.NoError(t, err)

	assert.Empty(t, js.created)
	require.Len(t, js.updated, 1)
	assert.Equal(t, 24*time.Hour, js.updated[0].MaxAge)
}

func TestEnsureStream_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("jetstream unavailable")

	js := &fakeJetStream{lookupErr: boom}
	cfg := testStreamConfig()
	si, err := NewStreamInitializer(js, &cfg)
	require.NoError(t, err)
	_, err = si.EnsureStream(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, js.created)

	js = &fakeJetStream{lookupErr: jetstream.ErrStreamNotFound, createErr: boom}
	si, err = NewStreamInitializer(js, &cfg)
	require.NoError(t, err)
	_, err = si.EnsureStream(context.Background())
	assert.ErrorIs(t, err, boom)
}
