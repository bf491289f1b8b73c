// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package metrics provides Prometheus metrics for visitormatch.

Metrics are registered on the default registry with promauto and exposed at
/metrics by the API router.

# Available Metrics

Matching:
  - visitormatch_match_requests_total{kind,outcome}: match requests (counter)
  - visitormatch_match_duration_seconds{kind}: time to score all candidates (histogram)
  - visitormatch_match_score{kind}: best score per request (histogram)
  - visitormatch_candidates{kind}: candidates per request (histogram)
  - visitormatch_red_flags_total: visitor matches with the IP timing red flag
  - visitormatch_short_circuits_total: fingerprint matches stopped by a perfect candidate

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Events:
  - events_processed_total{topic,outcome}
  - events_published_total{topic}
  - circuit_breaker_state{name}, circuit_breaker_state_transitions_total{name,from_state,to_state}

The kind label is "fingerprint" or "visitor". Labels never carry record
contents.
*/
package metrics
