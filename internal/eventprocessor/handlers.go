// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/visitormatch/internal/cache"
	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/matching"
	"github.com/tomtom215/visitormatch/internal/metrics"
	"github.com/tomtom215/visitormatch/internal/models"
	"github.com/tomtom215/visitormatch/internal/validation"
)

// MatchHandlers turns match request messages into match result messages.
//
// Requests that can never succeed (malformed payloads, validation failures,
// engine input errors) produce an error result and are acknowledged.
// Internal failures and cancellations are returned so the router retries
// them and finally parks them on the poison topic.
//
// Results are cached by kind and request ID so a redelivered request yields
// the identical result message without rescoring.
type MatchHandlers struct {
	engine  *matching.Engine
	topics  Topics
	results *cache.LRU[[]byte]
	now     func() time.Time
}

// NewMatchHandlers creates the handlers. cacheSize <= 0 uses the cache default.
func NewMatchHandlers(engine *matching.Engine, topics Topics, cacheSize int, cacheTTL time.Duration) *MatchHandlers {
	return &MatchHandlers{
		engine:  engine,
		topics:  topics,
		results: cache.NewLRU[[]byte](cacheSize, cacheTTL),
		now:     time.Now,
	}
}

// HandleFingerprint consumes one fingerprint match request.
func (h *MatchHandlers) HandleFingerprint(msg *message.Message) ([]*message.Message, error) {
	req, decodeErr := DeserializeFingerprintRequest(msg.Payload)

	var requestID string
	if req != nil {
		requestID = req.RequestID
	}
	requestID = resolveRequestID(requestID, msg)

	return h.handle(msg, KindFingerprint, h.topics.FingerprintRequests, requestID, func(ctx context.Context) (*MatchResult, error) {
		if decodeErr != nil {
			return nil, decodeErr
		}
		req.RequestID = requestID
		if verr := validation.ValidateStruct(req); verr != nil {
			return validationResult(verr), nil
		}
		resp, err := h.engine.MatchFingerprint(ctx, req)
		if err != nil {
			return nil, err
		}
		return &MatchResult{Status: StatusSuccess, Fingerprint: resp}, nil
	})
}

// HandleVisitor consumes one visitor match request.
func (h *MatchHandlers) HandleVisitor(msg *message.Message) ([]*message.Message, error) {
	req, decodeErr := DeserializeVisitorRequest(msg.Payload)

	var requestID string
	if req != nil {
		requestID = req.RequestID
	}
	requestID = resolveRequestID(requestID, msg)

	return h.handle(msg, KindVisitor, h.topics.VisitorRequests, requestID, func(ctx context.Context) (*MatchResult, error) {
		if decodeErr != nil {
			return nil, decodeErr
		}
		req.RequestID = requestID
		if verr := validation.ValidateStruct(req); verr != nil {
			return validationResult(verr), nil
		}
		resp, err := h.engine.MatchVisitor(ctx, req)
		if err != nil {
			return nil, err
		}
		return &MatchResult{Status: StatusSuccess, Visitor: resp}, nil
	})
}

func (h *MatchHandlers) handle(
	msg *message.Message,
	kind, topic, requestID string,
	run func(ctx context.Context) (*MatchResult, error),
) ([]*message.Message, error) {
	key := kind + ":" + requestID
	if payload, ok := h.results.Get(key); ok {
		metrics.RecordEventProcessed(topic, "duplicate")
		return []*message.Message{h.resultMessage(msg, kind, requestID, payload)}, nil
	}

	ctx := logging.ContextWithRequestID(msg.Context(), requestID)
	if cid := middleware.MessageCorrelationID(msg); cid != "" {
		ctx = logging.ContextWithCorrelationID(ctx, cid)
	}

	result, err := run(ctx)
	if err != nil {
		outcome := matching.Outcome(err)
		metrics.RecordEventProcessed(topic, outcome)
		if outcome != metrics.OutcomeInvalid {
			logging.Ctx(ctx).Warn().Err(err).Str("kind", kind).Msg("Match request failed, will retry")
			return nil, err
		}
		result = errorResult(err)
	} else if result.Failed() {
		metrics.RecordEventProcessed(topic, metrics.OutcomeInvalid)
	} else {
		metrics.RecordEventProcessed(topic, metrics.OutcomeMatched)
	}

	result.RequestID = requestID
	result.Kind = kind
	result.CompletedAt = h.now().UTC()

	payload, err := SerializeResult(result)
	if err != nil {
		return nil, err
	}
	h.results.Add(key, payload)

	return []*message.Message{h.resultMessage(msg, kind, requestID, payload)}, nil
}

// resultMessage builds the outgoing message. Its UUID derives from the
// request so broker-side deduplication drops republished results.
func (h *MatchHandlers) resultMessage(in *message.Message, kind, requestID string, payload []byte) *message.Message {
	out := message.NewMessage(kind+"-result-"+requestID, payload)
	out.Metadata.Set(MetadataRequestID, requestID)
	out.Metadata.Set(MetadataKind, kind)
	if cid := middleware.MessageCorrelationID(in); cid != "" {
		middleware.SetCorrelationID(cid, out)
	}
	return out
}

// resolveRequestID prefers the payload's request ID, then the request_id
// metadata, then the message UUID.
func resolveRequestID(fromPayload string, msg *message.Message) string {
	if fromPayload != "" {
		return fromPayload
	}
	if id := msg.Metadata.Get(MetadataRequestID); id != "" {
		return id
	}
	return msg.UUID
}

func validationResult(verr *validation.RequestValidationError) *MatchResult {
	apiErr := verr.ToAPIError()
	return &MatchResult{
		Status: StatusError,
		Error: &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	}
}

// errorResult reports an input error the engine rejected.
func errorResult(err error) *MatchResult {
	return &MatchResult{
		Status: StatusError,
		Error:  &models.APIError{Code: "VALIDATION_ERROR", Message: err.Error()},
	}
}

// CacheStats reports result cache hits, misses and size.
func (h *MatchHandlers) CacheStats() (hits, misses int64, size int) {
	return h.results.Stats()
}
