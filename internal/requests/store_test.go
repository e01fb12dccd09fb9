package requests_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/pagination"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPagination() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func newStore(t *testing.T) requests.System {
	t.Helper()
	return requests.New(testLogger(), testPagination(), requests.WithClock(func() time.Time { return fixedNow }))
}

func seededStore(t *testing.T) requests.System {
	t.Helper()
	sys := newStore(t)
	if err := requests.Seed(context.Background(), sys); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return sys
}

func ids(reqs []requests.Request) []uuid.UUID {
	out := make([]uuid.UUID, len(reqs))
	for i, r := range reqs {
		out[i] = r.ID
	}
	return out
}

func TestSeed(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()

	all := sys.List(ctx)
	if len(all) != 5 {
		t.Fatalf("seeded: got %d, want 5", len(all))
	}

	for i, r := range all {
		if r.RequestNumber != i+1 {
			t.Errorf("request %d: number %d out of order", i, r.RequestNumber)
		}
	}

	third := all[2]
	if third.Status != requests.StatusApproved {
		t.Errorf("third seed status: got %s, want approved", third.Status)
	}
	if third.DecidedBy == nil || *third.DecidedBy != requests.SeedReviewer {
		t.Errorf("third seed decided_by: got %v", third.DecidedBy)
	}

	stats := sys.Stats(ctx)
	want := requests.Stats{Pending: 4, Approved: 1, Rejected: 0, Total: 5}
	if stats != want {
		t.Errorf("stats: got %+v, want %+v", stats, want)
	}
}

func TestFilterAllReturnsFullSetInOrder(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()

	got, err := sys.Filter(ctx, "", requests.FilterAll)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	if !slices.Equal(ids(got), ids(sys.List(ctx))) {
		t.Error(`filter("", "all") should equal list() in original order`)
	}
}

func TestFilter(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		term    string
		status  string
		wantNum []int
	}{
		{"npi substring", "1164", requests.FilterAll, []int{1, 2}},
		{"description case-insensitive", "ADDRESS", requests.FilterAll, []int{3}},
		{"term and status", "1164", "pending", []int{1, 2}},
		{"status only", "", "approved", []int{3}},
		{"no match", "zzz", requests.FilterAll, []int{}},
		{"npi match rejected by status", "1234567890", "pending", []int{}},
		{"sentinel npi", requests.NoProvider, requests.FilterAll, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sys.Filter(ctx, tt.term, tt.status)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}

			nums := make([]int, len(got))
			for i, r := range got {
				nums[i] = r.RequestNumber
			}
			if !slices.Equal(nums, tt.wantNum) {
				t.Errorf("got %v, want %v", nums, tt.wantNum)
			}
		})
	}
}

func TestFilterPredicatesCommute(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()

	for _, term := range []string{"", "1164", "license", "e"} {
		for _, status := range []string{requests.FilterAll, "pending", "approved", "rejected"} {
			combined, err := sys.Filter(ctx, term, status)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}

			byTerm, _ := sys.Filter(ctx, term, requests.FilterAll)
			var termThenStatus []requests.Request
			for _, r := range byTerm {
				if status == requests.FilterAll || string(r.Status) == status {
					termThenStatus = append(termThenStatus, r)
				}
			}

			byStatus, _ := sys.Filter(ctx, "", status)
			var statusThenTerm []requests.Request
			for _, r := range byStatus {
				if r.Matches(term) {
					statusThenTerm = append(statusThenTerm, r)
				}
			}

			if !slices.Equal(ids(combined), ids(termThenStatus)) || !slices.Equal(ids(combined), ids(statusThenTerm)) {
				t.Errorf("term=%q status=%q: predicate order changed the result", term, status)
			}
		}
	}
}

func TestFilterInvalidStatus(t *testing.T) {
	sys := seededStore(t)

	_, err := sys.Filter(context.Background(), "", "archived")
	if !errors.Is(err, requests.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     requests.CreateCommand
		wantErr error
	}{
		{
			name: "valid with change",
			cmd: requests.CreateCommand{
				NPI: " 1356035752 ", Description: "Update specialty", RequestType: requests.TypeSpecialtyUpdate,
				Priority: requests.PriorityHigh, CurrentValue: "RN", ProposedValue: "NP",
			},
		},
		{
			name: "valid sentinel",
			cmd: requests.CreateCommand{
				NPI: requests.NoProvider, Description: "New provider", RequestType: requests.TypeNewProfileCreation,
				Priority: requests.PriorityLow,
			},
		},
		{
			name: "current without proposed",
			cmd: requests.CreateCommand{
				NPI: "1356035752", Description: "x", RequestType: requests.TypeAddressUpdate,
				Priority: requests.PriorityLow, CurrentValue: "123 Old St",
			},
			wantErr: requests.ErrIncompleteChange,
		},
		{
			name: "proposed without current",
			cmd: requests.CreateCommand{
				NPI: "1356035752", Description: "x", RequestType: requests.TypeAddressUpdate,
				Priority: requests.PriorityLow, ProposedValue: "456 New Ave",
			},
			wantErr: requests.ErrIncompleteChange,
		},
		{
			name: "missing description",
			cmd: requests.CreateCommand{
				NPI: "1356035752", RequestType: requests.TypeAddressUpdate, Priority: requests.PriorityLow,
			},
			wantErr: requests.ErrInvalidRequest,
		},
		{
			name: "unknown type",
			cmd: requests.CreateCommand{
				NPI: "1356035752", Description: "x", RequestType: "rename", Priority: requests.PriorityLow,
			},
			wantErr: requests.ErrInvalidRequest,
		},
		{
			name: "short npi",
			cmd: requests.CreateCommand{
				NPI: "12345", Description: "x", RequestType: requests.TypeAddressUpdate, Priority: requests.PriorityLow,
			},
			wantErr: requests.ErrInvalidRequest,
		},
		{
			name: "sentinel on non-creation type",
			cmd: requests.CreateCommand{
				NPI: requests.NoProvider, Description: "x", RequestType: requests.TypeAddressUpdate, Priority: requests.PriorityLow,
			},
			wantErr: requests.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := newStore(t)
			r, err := sys.Create(context.Background(), tt.cmd)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if n := len(sys.List(context.Background())); n != 0 {
					t.Errorf("rejected request stored: %d", n)
				}
				return
			}

			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if r.Status != requests.StatusPending {
				t.Errorf("status: got %s, want pending", r.Status)
			}
			if r.RequestNumber != 1 {
				t.Errorf("number: got %d, want 1", r.RequestNumber)
			}
			if !r.SubmittedDate.Equal(fixedNow) {
				t.Errorf("submitted: got %v, want %v", r.SubmittedDate, fixedNow)
			}
		})
	}
}

func TestDecideTerminality(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()
	first := sys.List(ctx)[0]

	approved, err := sys.Decide(ctx, first.ID, requests.DecideCommand{
		Status: requests.StatusApproved, FinalValue: "Registered Nurse", DecidedBy: "steward",
	})
	if err != nil {
		t.Fatalf("first decide: %v", err)
	}
	if approved.Status != requests.StatusApproved || approved.DecidedAt == nil {
		t.Fatalf("first decide result: %+v", approved)
	}

	_, err = sys.Decide(ctx, first.ID, requests.DecideCommand{Status: requests.StatusApproved, DecidedBy: "steward"})
	if !errors.Is(err, requests.ErrNotPending) {
		t.Errorf("second approve: expected ErrNotPending, got %v", err)
	}

	_, err = sys.Decide(ctx, first.ID, requests.DecideCommand{Status: requests.StatusRejected, DecidedBy: "other"})
	if !errors.Is(err, requests.ErrNotPending) {
		t.Errorf("reject after approve: expected ErrNotPending, got %v", err)
	}

	got, _ := sys.Find(ctx, first.ID)
	if got.Status != requests.StatusApproved || got.FinalValue != "Registered Nurse" || *got.DecidedBy != "steward" {
		t.Errorf("decided request mutated: %+v", got)
	}
}

func TestDecideErrors(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()
	first := sys.List(ctx)[0]

	if _, err := sys.Decide(ctx, uuid.New(), requests.DecideCommand{Status: requests.StatusApproved}); !errors.Is(err, requests.ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}

	if _, err := sys.Decide(ctx, first.ID, requests.DecideCommand{Status: requests.StatusPending}); !errors.Is(err, requests.ErrInvalidDecision) {
		t.Errorf("pending decision: expected ErrInvalidDecision, got %v", err)
	}
}

func TestDecideConcurrentSingleWinner(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()
	target := sys.List(ctx)[0]

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)

	for i := range callers {
		wg.Go(func() {
			status := requests.StatusApproved
			if i%2 == 0 {
				status = requests.StatusRejected
			}
			_, err := sys.Decide(ctx, target.ID, requests.DecideCommand{Status: status, DecidedBy: "steward"})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			if !errors.Is(err, requests.ErrNotPending) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("winners: got %d, want exactly 1", winners)
	}
}

func TestFindReturnsCopy(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()
	first := sys.List(ctx)[0]

	got, err := sys.Find(ctx, first.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got.Status = requests.StatusRejected

	again, _ := sys.Find(ctx, first.ID)
	if again.Status != requests.StatusPending {
		t.Error("mutating a returned request changed the store")
	}
}

func TestPage(t *testing.T) {
	sys := seededStore(t)
	ctx := context.Background()

	license := requests.TypeLicenseVerification
	status := "pending"

	tests := []struct {
		name      string
		page      pagination.PageRequest
		filters   requests.Filters
		wantTotal int
		wantLen   int
	}{
		{"all, paged", pagination.PageRequest{Page: 1, PageSize: 2}, requests.Filters{}, 5, 2},
		{"last page", pagination.PageRequest{Page: 3, PageSize: 2}, requests.Filters{}, 5, 1},
		{"type filter", pagination.PageRequest{Page: 1}, requests.Filters{RequestType: &license}, 2, 2},
		{"status filter", pagination.PageRequest{Page: 1}, requests.Filters{Status: &status}, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := sys.Page(ctx, tt.page, tt.filters)
			if err != nil {
				t.Fatalf("page: %v", err)
			}
			if result.Total != tt.wantTotal {
				t.Errorf("total: got %d, want %d", result.Total, tt.wantTotal)
			}
			if len(result.Data) != tt.wantLen {
				t.Errorf("len: got %d, want %d", len(result.Data), tt.wantLen)
			}
		})
	}
}

func TestTimeline(t *testing.T) {
	sys := seededStore(t)
	all := sys.List(context.Background())

	pending := all[0].Timeline()
	if len(pending) != 2 || pending[1].Done {
		t.Errorf("pending timeline: %+v", pending)
	}

	decided := all[2].Timeline()
	if len(decided) != 3 || decided[2].Label != "Request approved" || decided[2].At == nil {
		t.Errorf("decided timeline: %+v", decided)
	}
}
