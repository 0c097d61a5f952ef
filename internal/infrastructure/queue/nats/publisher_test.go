package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantRetryable bool
		wantRecord    bool
	}{
		{name: "nil", err: nil},
		{name: "canceled", err: context.Canceled},
		{name: "no servers", err: fmt.Errorf("nats publish: %w", nats.ErrNoServers), wantRetryable: true, wantRecord: true},
		{name: "closed", err: nats.ErrConnectionClosed, wantRetryable: true, wantRecord: true},
		{name: "bad subject", err: nats.ErrBadSubject, wantRecord: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyNATSError(tt.err)
			if got.Retryable != tt.wantRetryable || got.RecordFailure != tt.wantRecord {
				t.Fatalf("classifyNATSError(%v) = %+v", tt.err, got)
			}
		})
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	if err := wrapTemporaryIfNeeded(nats.ErrTimeout); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected transient error to become ErrTemporary, got %v", err)
	}
	permanent := errors.New("bad payload")
	if err := wrapTemporaryIfNeeded(permanent); err != permanent {
		t.Fatalf("permanent errors must pass through, got %v", err)
	}
	if err := wrapTemporaryIfNeeded(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestEncodeEvent(t *testing.T) {
	createdAt := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	raw, err := encodeEvent(domain.AnalysisRecord{ID: "a-1", PaletteName: "Soft / Earthy", Brightness: 0.5, CreatedAt: createdAt})
	if err != nil {
		t.Fatalf("encodeEvent() error = %v", err)
	}

	var event AnalysisCompletedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.ID != "a-1" || event.PaletteName != "Soft / Earthy" || !event.CreatedAt.Equal(createdAt) {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.RecommendedStyles == nil {
		t.Fatalf("expected empty styles array")
	}
}
