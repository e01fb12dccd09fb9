// Package console is the terminal review console. It drives a reviews.Session
// over the in-process domain systems using bubbletea.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/investigations"
	"github.com/JaimeStill/steward/internal/profiles"
	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/internal/reviews"
	"github.com/JaimeStill/steward/internal/validations"
)

// Deps are the domain systems the console reads and drives.
type Deps struct {
	Requests       requests.System
	Profiles       profiles.System
	Investigations investigations.System
	Validations    validations.System
	Reviews        reviews.System
	Logger         *slog.Logger
}

// focus is the control receiving key input.
type focus int

const (
	focusList focus = iota
	focusSearch
	focusFinalValue
	focusNotes
)

var statusFilters = []string{
	requests.FilterAll,
	string(requests.StatusPending),
	string(requests.StatusApproved),
	string(requests.StatusRejected),
}

// requestItem implements list.Item for a request row.
type requestItem struct {
	req requests.Request
}

func (i requestItem) Title() string {
	return fmt.Sprintf("#%d  NPI %s  %s", i.req.RequestNumber, i.req.NPI, i.req.Status)
}

func (i requestItem) Description() string {
	return fmt.Sprintf("%s · %s priority · %s", i.req.RequestType.Label(), i.req.Priority, i.req.Description)
}

func (i requestItem) FilterValue() string { return i.req.NPI }

// investigationMsg delivers a resolved (or failed) investigation.
type investigationMsg struct {
	requestID  uuid.UUID
	generation uint64
	snapshot   *investigations.Snapshot
	err        error
}

// App is the console model.
type App struct {
	ctx     context.Context
	deps    Deps
	session *reviews.Session
	logger  *slog.Logger

	requests     list.Model
	search       textinput.Model
	finalValue   textinput.Model
	notes        textarea.Model
	statusFilter int
	focus        focus

	// Data for the open request.
	request       *requests.Request
	profile       profiles.View
	report        *validations.Report
	investigation *investigations.Snapshot

	stats   requests.Stats
	status  string
	warning string
	err     error

	width  int
	height int
}

// New opens a review session for reviewer and builds the console model.
func New(ctx context.Context, deps Deps, reviewer string) *App {
	search := textinput.New()
	search.Placeholder = "search NPI or description"
	search.Prompt = "/ "

	finalValue := textinput.New()
	finalValue.Placeholder = "final value"
	finalValue.Prompt = "Final value: "

	notes := textarea.New()
	notes.Placeholder = "Reviewer notes"
	notes.ShowLineNumbers = false
	notes.SetHeight(3)

	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Stewardship Requests"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)

	a := &App{
		ctx:        ctx,
		deps:       deps,
		session:    deps.Reviews.Open(reviewer),
		logger:     deps.Logger.With("system", "console"),
		requests:   menu,
		search:     search,
		finalValue: finalValue,
		notes:      notes,
	}
	a.refreshList()
	a.logger.Info("console session opened", "session", a.session.ID(), "reviewer", reviewer)
	return a
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update applies one message to the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.requests.SetSize(max(0, msg.Width-4), max(0, msg.Height-10))
		a.notes.SetWidth(max(20, msg.Width-8))
		return a, nil

	case investigationMsg:
		a.applyInvestigation(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, a.quit()
		}
		switch a.session.View().(type) {
		case reviews.Viewing:
			return a.updateViewing(msg)
		case reviews.Closed:
			return a.updateClosed(msg)
		}
		return a.updateListing(msg)
	}

	return a, nil
}

func (a *App) updateListing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.focus == focusSearch {
		switch msg.String() {
		case "enter", "esc":
			a.search.Blur()
			a.focus = focusList
			return a, nil
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.refreshList()
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, a.quit()
	case "/":
		a.focus = focusSearch
		return a, a.search.Focus()
	case "s":
		a.statusFilter = (a.statusFilter + 1) % len(statusFilters)
		a.refreshList()
		return a, nil
	case "enter":
		item, ok := a.requests.SelectedItem().(requestItem)
		if !ok {
			return a, nil
		}
		a.open(item.req.ID)
		return a, nil
	}

	var cmd tea.Cmd
	a.requests, cmd = a.requests.Update(msg)
	return a, cmd
}

func (a *App) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.focus {
	case focusNotes:
		if msg.String() == "esc" {
			a.notes.Blur()
			a.focus = focusList
			a.fail(a.session.SetNotes(a.notes.Value()))
			return a, nil
		}
		var cmd tea.Cmd
		a.notes, cmd = a.notes.Update(msg)
		return a, cmd

	case focusFinalValue:
		switch msg.String() {
		case "enter", "esc":
			a.finalValue.Blur()
			a.focus = focusList
			a.fail(a.session.SetFinalValue(a.finalValue.Value()))
			return a, nil
		}
		var cmd tea.Cmd
		a.finalValue, cmd = a.finalValue.Update(msg)
		return a, cmd
	}

	v := a.session.View().(reviews.Viewing)

	switch msg.String() {
	case "q":
		return a, a.quit()
	case "esc", "b":
		a.back()
		return a, nil
	case "tab":
		next := reviews.TabInvestigation
		if v.Tab == reviews.TabInvestigation {
			next = reviews.TabProfile
		}
		if a.fail(a.session.SetTab(next)) {
			return a, nil
		}
		if next == reviews.TabInvestigation && a.investigation == nil {
			return a, a.investigate()
		}
		return a, nil
	case "i":
		return a, a.investigate()
	case "v":
		a.runCheck()
		return a, nil
	case "n":
		a.focus = focusNotes
		return a, a.notes.Focus()
	case "f":
		a.focus = focusFinalValue
		return a, a.finalValue.Focus()
	case "a":
		a.decide(a.session.Approve)
		return a, nil
	case "r":
		a.decide(a.session.Reject)
		return a, nil
	}
	return a, nil
}

func (a *App) updateClosed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, a.quit()
	case "enter", "esc", "b":
		a.back()
	}
	return a, nil
}

// open selects a request and loads everything shown while viewing it.
func (a *App) open(id uuid.UUID) {
	a.clearMessages()
	if a.fail(a.session.Select(a.ctx, id)) {
		return
	}

	req, err := a.deps.Requests.Find(a.ctx, id)
	if a.fail(err) {
		return
	}
	a.request = req

	view, err := a.deps.Profiles.Resolve(a.ctx, req.NPI)
	if a.fail(err) {
		return
	}
	a.profile = view

	a.report, err = a.deps.Validations.Report(a.ctx, id)
	a.fail(err)

	a.investigation = nil
	if snap, err := a.deps.Investigations.Snapshot(a.ctx, id); err == nil {
		a.investigation = snap
	}

	a.finalValue.SetValue(a.session.FinalValue())
	a.notes.SetValue("")
}

func (a *App) back() {
	a.clearMessages()
	if a.fail(a.session.Back()) {
		return
	}
	a.request = nil
	a.report = nil
	a.investigation = nil
	a.refreshList()
}

// investigate starts a run and returns a command that awaits its result.
func (a *App) investigate() tea.Cmd {
	if a.request == nil {
		return nil
	}
	snap, err := a.deps.Investigations.Start(a.ctx, a.request.ID)
	if a.fail(err) {
		return nil
	}
	a.investigation = snap
	return awaitInvestigation(a.ctx, a.deps.Investigations, snap.RequestID, snap.Generation)
}

func awaitInvestigation(ctx context.Context, sys investigations.System, id uuid.UUID, generation uint64) tea.Cmd {
	return func() tea.Msg {
		snap, err := sys.Await(ctx, id, generation)
		return investigationMsg{requestID: id, generation: generation, snapshot: snap, err: err}
	}
}

// applyInvestigation keeps only results for the open request's latest run.
func (a *App) applyInvestigation(msg investigationMsg) {
	if a.request == nil || a.request.ID != msg.requestID {
		return
	}
	if a.investigation != nil && msg.generation < a.investigation.Generation {
		return
	}
	if errors.Is(msg.err, investigations.ErrSuperseded) {
		return
	}
	if a.fail(msg.err) {
		return
	}
	a.investigation = msg.snapshot
}

func (a *App) runCheck() {
	if a.request == nil || a.report == nil {
		return
	}
	for _, c := range a.report.Checks {
		if !c.Runnable() {
			continue
		}
		report, err := a.deps.Validations.Run(a.ctx, a.request.ID, c.ID)
		if a.fail(err) {
			return
		}
		a.report = report
		a.status = fmt.Sprintf("%s: %s", c.Title, validations.CompletedDetails)
		return
	}
	a.status = "No pending checks"
}

func (a *App) decide(fn func(context.Context, string) (*reviews.Outcome, error)) {
	a.clearMessages()
	if a.fail(a.session.SetNotes(a.notes.Value())) {
		return
	}

	out, err := fn(a.ctx, a.finalValue.Value())
	if a.fail(err) {
		return
	}

	req := out.Request
	a.request = &req
	a.status = fmt.Sprintf("Request #%d %s", req.RequestNumber, req.Status)
	a.warning = out.Warning
	a.logger.Info("decision recorded",
		"request_id", req.ID,
		"status", req.Status,
		"final_value", req.FinalValue,
	)
}

func (a *App) refreshList() {
	filtered, err := a.deps.Requests.Filter(a.ctx, a.search.Value(), statusFilters[a.statusFilter])
	if a.fail(err) {
		return
	}
	items := make([]list.Item, len(filtered))
	for i, r := range filtered {
		items[i] = requestItem{req: r}
	}
	a.requests.SetItems(items)
	a.stats = a.deps.Requests.Stats(a.ctx)
}

func (a *App) quit() tea.Cmd {
	if err := a.deps.Reviews.Close(a.session.ID()); err != nil {
		a.logger.Warn("session close failed", "error", err)
	}
	return tea.Quit
}

// fail records err for display and reports whether it was non-nil.
func (a *App) fail(err error) bool {
	if err == nil {
		return false
	}
	a.err = err
	a.logger.Warn("console action failed", "error", err)
	return true
}

func (a *App) clearMessages() {
	a.err = nil
	a.status = ""
	a.warning = ""
}
