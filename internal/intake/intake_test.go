package intake_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"

	"github.com/JaimeStill/steward/internal/intake"
	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/metrics"
	"github.com/JaimeStill/steward/pkg/pagination"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func message(t *testing.T, offset int64, id, eventType string, data any) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	value, err := json.Marshal(events.Event{ID: id, Type: eventType, Source: "informatica", Data: payload})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return kafka.Message{Offset: offset, Value: value}
}

func TestRun(t *testing.T) {
	store := requests.New(testLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	reg := metrics.New("test")

	valid := requests.CreateCommand{
		NPI:         "1780827816",
		Description: "Confirm license expiration for nurse practitioner",
		RequestType: requests.TypeLicenseVerification,
		Priority:    requests.PriorityMedium,
	}
	incomplete := valid
	incomplete.CurrentValue = "only one side"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		queue: []kafka.Message{
			message(t, 1, "evt-1", intake.EventSubmitted, valid),
			message(t, 2, "evt-1", intake.EventSubmitted, valid),
			message(t, 3, "evt-2", intake.EventSubmitted, incomplete),
			message(t, 4, "evt-3", "stewardship.request.decided", valid),
			message(t, 5, "evt-4", intake.EventSubmitted, map[string]any{"npi": 42}),
		},
	}

	if err := intake.New(store, reader, reg, testLogger()).Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	all := store.List(context.Background())
	if len(all) != 1 {
		t.Fatalf("created: got %d, want 1", len(all))
	}
	if all[0].Status != requests.StatusPending || all[0].NPI != valid.NPI {
		t.Errorf("created request: %+v", all[0])
	}

	if len(reader.committed) != 5 {
		t.Errorf("committed: got %v, want all five offsets", reader.committed)
	}

	tests := []struct {
		result string
		want   float64
	}{
		{"created", 1},
		{"rejected", 2},
		{"skipped", 2},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(reg.IntakeMessages.WithLabelValues(tt.result)); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.result, got, tt.want)
		}
	}
}

type flakyStore struct {
	requests.System
	failures int
}

func (s *flakyStore) Create(ctx context.Context, cmd requests.CreateCommand) (*requests.Request, error) {
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("store unavailable")
	}
	return s.System.Create(ctx, cmd)
}

func TestRunRetriesStoreFailure(t *testing.T) {
	store := &flakyStore{
		System:   requests.New(testLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}),
		failures: 2,
	}
	cmd := requests.CreateCommand{
		NPI:         "1780827816",
		Description: "Confirm license expiration for nurse practitioner",
		RequestType: requests.TypeLicenseVerification,
		Priority:    requests.PriorityMedium,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		queue:  []kafka.Message{message(t, 1, "evt-1", intake.EventSubmitted, cmd)},
	}

	consumer := intake.New(store, reader, nil, testLogger(),
		intake.WithConsumeOptions(events.WithRetryBackoff(time.Millisecond, time.Millisecond)),
	)
	if err := consumer.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := len(store.List(context.Background())); got != 1 {
		t.Errorf("created: got %d, want 1", got)
	}
	if len(reader.committed) != 1 || reader.committed[0] != 1 {
		t.Errorf("committed: got %v, want [1]", reader.committed)
	}
}

func TestDedupWindow(t *testing.T) {
	store := requests.New(testLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	consumer := intake.New(store, &fakeReader{}, nil, testLogger(), intake.WithDedupWindow(2))
	ctx := context.Background()

	submit := func(id string) {
		t.Helper()
		data, _ := json.Marshal(requests.CreateCommand{
			NPI:         "1780827816",
			Description: "Confirm license expiration " + id,
			RequestType: requests.TypeLicenseVerification,
			Priority:    requests.PriorityMedium,
		})
		event := events.Event{ID: id, Type: intake.EventSubmitted, Data: data}
		if err := consumer.Handle(ctx, event); err != nil {
			t.Fatalf("handle %s: %v", id, err)
		}
	}

	tests := []struct {
		id   string
		want int
	}{
		{"evt-a", 1},
		{"evt-b", 2},
		{"evt-b", 2},
		{"evt-c", 3},
		{"evt-a", 4},
		{"evt-c", 4},
	}

	for _, tt := range tests {
		submit(tt.id)
		if got := len(store.List(ctx)); got != tt.want {
			t.Fatalf("after %s: got %d requests, want %d", tt.id, got, tt.want)
		}
	}
}
