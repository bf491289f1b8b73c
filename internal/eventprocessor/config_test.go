// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tomtom215/visitormatch/internal/config"
)

func testEventsConfig() config.EventsConfig {
	return config.EventsConfig{
		Enabled:                 true,
		Transport:               TransportGoChannel,
		QueueGroup:              "visitormatch",
		FingerprintRequestTopic: "fingerprint.match.requested",
		FingerprintResultTopic:  "fingerprint.match.completed",
		VisitorRequestTopic:     "visitor.match.requested",
		VisitorResultTopic:      "visitor.match.completed",
		PoisonTopic:             "match.poison",
		RetryCount:              2,
		RetryInitialInterval:    time.Millisecond,
		CloseTimeout:            5 * time.Second,
		BreakerMaxFailures:      3,
		BreakerInterval:         time.Minute,
		BreakerTimeout:          time.Second,
		ResultCacheSize:         100,
		ResultCacheTTL:          time.Minute,
	}
}

func TestTopicsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := testEventsConfig()
	topics := TopicsFromConfig(&cfg)

	assert.Equal(t, "fingerprint.match.requested", topics.FingerprintRequests)
	assert.Equal(t, "visitor.match.completed", topics.VisitorResults)
	assert.ElementsMatch(t, []string{
		"fingerprint.match.requested",
		"fingerprint.match.completed",
		"visitor.match.requested",
		"visitor.match.completed",
		"match.poison",
	}, topics.All())
}

func TestDefaultStreamConfig_CoversEveryTopic(t *testing.T) {
	t.Parallel()

	cfg := testEventsConfig()
	stream := DefaultStreamConfig(TopicsFromConfig(&cfg))

	assert.Equal(t, StreamName, stream.Name)
	assert.Len(t, stream.Subjects, 5)
	assert.NotContains(t, stream.Name, ".")
}

func TestConsumerName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"visitormatch-fingerprint", "visitormatch-fingerprint"},
		{"visitormatch-results-visitor.match.completed", "visitormatch-results-visitor_match_completed"},
		{"team.a/visitor", "team_a_visitor"},
		{".leading", "leading"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, consumerName(tt.in), tt.in)
	}
}

func TestDefaultSubscriberConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultSubscriberConfig("nats://127.0.0.1:4222", "visitormatch", "visitor")

	assert.Equal(t, "visitormatch-visitor", cfg.DurableName)
	assert.Equal(t, cfg.DurableName, cfg.QueueGroup)
	assert.Equal(t, StreamName, cfg.StreamName)
}

func TestRouterConfigFromEvents(t *testing.T) {
	t.Parallel()

	cfg := testEventsConfig()
	rc := RouterConfigFromEvents(&cfg)

	assert.Equal(t, 2, rc.RetryMaxRetries)
	assert.Equal(t, time.Millisecond, rc.RetryInitialInterval)
	assert.Equal(t, "match.poison", rc.PoisonQueueTopic)
}
