package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JaimeStill/steward/internal/investigations"
	"github.com/JaimeStill/steward/internal/profiles"
	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/internal/reviews"
	"github.com/JaimeStill/steward/internal/validations"
	"github.com/JaimeStill/steward/pkg/pagination"
)

type harness struct {
	app      *App
	store    requests.System
	notified *atomic.Int32
}

func newHarness(t *testing.T, notify reviews.NotifierFunc) harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	store := requests.New(logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	if err := requests.Seed(ctx, store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	lookup := profiles.New(logger)

	var count atomic.Int32
	notifier := reviews.NotifierFunc(func(ctx context.Context, d reviews.Decision) error {
		count.Add(1)
		if notify != nil {
			return notify(ctx, d)
		}
		return nil
	})

	deps := Deps{
		Requests: store,
		Profiles: lookup,
		Investigations: investigations.New(
			store,
			investigations.NewSimulator(lookup),
			investigations.Config{Timeout: time.Second},
			logger,
		),
		Validations: validations.New(store, lookup, logger),
		Reviews:     reviews.New(store, notifier, reviews.Config{NotifyTimeout: time.Second}, logger),
		Logger:      logger,
	}

	return harness{app: New(ctx, deps, "tester"), store: store, notified: &count}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and drops the returned command. Only focus and blink
// commands come back from plain key presses.
func press(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	a.Update(msg)
}

// investigate sends msg and resolves the investigation command it returns.
func investigate(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	if cmd == nil {
		t.Fatalf("no investigation command: err=%v", a.err)
	}
	a.Update(cmd())
}

func typeText(t *testing.T, a *App, text string) {
	t.Helper()
	for _, r := range text {
		press(t, a, key(string(r)))
	}
}

func openNPI(t *testing.T, a *App, npi string) {
	t.Helper()
	press(t, a, key("/"))
	typeText(t, a, npi)
	press(t, a, key("enter"))
	press(t, a, key("enter"))

	if a.request == nil || a.request.NPI != npi {
		t.Fatalf("open request for %s failed: err=%v", npi, a.err)
	}
}

func TestListingShowsSeededRequests(t *testing.T) {
	h := newHarness(t, nil)

	if got := len(h.app.requests.Items()); got != 5 {
		t.Fatalf("items = %d, want 5", got)
	}
	if h.app.stats.Total != 5 {
		t.Errorf("stats total = %d, want 5", h.app.stats.Total)
	}
	if !strings.Contains(h.app.View(), "Steward") {
		t.Error("header not rendered")
	}
}

func TestListingFilters(t *testing.T) {
	tests := []struct {
		name   string
		search string
		cycles int
		filter string
	}{
		{"all", "", 0, requests.FilterAll},
		{"pending", "", 1, string(requests.StatusPending)},
		{"approved", "", 2, string(requests.StatusApproved)},
		{"search npi", "1164037024", 0, requests.FilterAll},
		{"search description", "license", 0, requests.FilterAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			if tt.search != "" {
				press(t, h.app, key("/"))
				typeText(t, h.app, tt.search)
				press(t, h.app, key("esc"))
			}
			for range tt.cycles {
				press(t, h.app, key("s"))
			}

			want, err := h.store.Filter(context.Background(), tt.search, tt.filter)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if got := len(h.app.requests.Items()); got != len(want) {
				t.Errorf("items = %d, want %d", got, len(want))
			}
		})
	}
}

func TestRejectWorkflow(t *testing.T) {
	h := newHarness(t, nil)
	a := h.app

	openNPI(t, a, "1356035752")
	if !a.profile.Found {
		t.Fatal("profile should be found")
	}
	if a.report == nil || len(a.report.Checks) != 4 {
		t.Fatal("validation report not loaded")
	}

	investigate(t, a, key("tab"))
	if a.investigation == nil || a.investigation.State != investigations.StateComplete {
		t.Fatalf("investigation not resolved: %+v", a.investigation)
	}
	if got := len(a.investigation.Results); got != len(investigations.SourceOrder) {
		t.Errorf("results = %d, want %d", got, len(investigations.SourceOrder))
	}
	if !strings.Contains(a.View(), "External Search") {
		t.Error("investigation tab not rendered")
	}

	press(t, a, key("n"))
	typeText(t, a, "license still valid")
	press(t, a, key("esc"))

	press(t, a, key("r"))
	if _, ok := a.session.View().(reviews.Closed); !ok {
		t.Fatalf("view = %T, want Closed: err=%v", a.session.View(), a.err)
	}

	req, err := h.store.Find(context.Background(), a.request.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if req.Status != requests.StatusRejected {
		t.Errorf("status = %s, want rejected", req.Status)
	}
	if req.Notes != "license still valid" {
		t.Errorf("notes = %q", req.Notes)
	}
	if h.notified.Load() != 1 {
		t.Errorf("notifications = %d, want 1", h.notified.Load())
	}

	press(t, a, key("enter"))
	if _, ok := a.session.View().(reviews.Listing); !ok {
		t.Errorf("view = %T, want Listing", a.session.View())
	}
}

func TestFinalValueEdit(t *testing.T) {
	h := newHarness(t, nil)
	a := h.app

	press(t, a, key("/"))
	typeText(t, a, "should be updated")
	press(t, a, key("enter"))
	press(t, a, key("enter"))
	if a.request == nil {
		t.Fatalf("no request opened: %v", a.err)
	}
	if got := a.finalValue.Value(); got != a.request.ProposedValue {
		t.Fatalf("final value = %q, want proposed %q", got, a.request.ProposedValue)
	}

	press(t, a, key("f"))
	a.finalValue.SetValue("Nurse Practitioner")
	press(t, a, key("enter"))
	press(t, a, key("a"))

	req, _ := h.store.Find(context.Background(), a.request.ID)
	if req.Status != requests.StatusApproved || req.FinalValue != "Nurse Practitioner" {
		t.Errorf("got %s/%q", req.Status, req.FinalValue)
	}
}

func TestDecidedRequestDisablesActions(t *testing.T) {
	h := newHarness(t, nil)
	a := h.app

	openNPI(t, a, "1234567890")
	if a.profile.Found {
		t.Error("1234567890 should have no profile")
	}
	if !strings.Contains(a.View(), "No profile data") {
		t.Error("missing profile panel not rendered")
	}

	press(t, a, key("a"))
	if !errors.Is(a.err, requests.ErrNotPending) {
		t.Errorf("err = %v, want ErrNotPending", a.err)
	}
	if _, ok := a.session.View().(reviews.Viewing); !ok {
		t.Errorf("view = %T, want Viewing", a.session.View())
	}
	if h.notified.Load() != 0 {
		t.Error("no notification expected")
	}
	if !strings.Contains(a.View(), "disabled") {
		t.Error("disabled actions not rendered")
	}
}

func TestNotifyFailureShowsWarning(t *testing.T) {
	h := newHarness(t, func(context.Context, reviews.Decision) error {
		return errors.New("broker unavailable")
	})
	a := h.app

	openNPI(t, a, "1356035752")
	press(t, a, key("a"))

	if _, ok := a.session.View().(reviews.Closed); !ok {
		t.Fatalf("decision should stand: view = %T", a.session.View())
	}
	if !strings.Contains(a.warning, "broker unavailable") {
		t.Errorf("warning = %q", a.warning)
	}
}

func TestRunPendingCheck(t *testing.T) {
	h := newHarness(t, nil)
	a := h.app

	openNPI(t, a, "1356035752")
	before := a.report.Summary.Pending
	if before == 0 {
		t.Fatal("license verification should leave input validation pending")
	}

	press(t, a, key("v"))
	if a.report.Summary.Pending != before-1 {
		t.Errorf("pending = %d, want %d", a.report.Summary.Pending, before-1)
	}
}

func TestStaleInvestigationIgnored(t *testing.T) {
	h := newHarness(t, nil)
	a := h.app

	openNPI(t, a, "1356035752")
	investigate(t, a, key("i"))
	current := a.investigation
	if current == nil {
		t.Fatal("no investigation")
	}

	a.Update(investigationMsg{
		requestID:  a.request.ID,
		generation: current.Generation - 1,
		snapshot:   &investigations.Snapshot{Generation: current.Generation - 1},
	})
	if a.investigation != current {
		t.Error("older generation replaced the current snapshot")
	}
}
