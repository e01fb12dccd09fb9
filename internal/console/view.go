package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JaimeStill/steward/internal/investigations"
	"github.com/JaimeStill/steward/internal/profiles"
	"github.com/JaimeStill/steward/internal/reviews"
)

const timeLayout = "2006-01-02 15:04"

// View renders the current screen.
func (a *App) View() string {
	var body string
	switch v := a.session.View().(type) {
	case reviews.Viewing:
		body = a.viewRequest(v)
	case reviews.Closed:
		body = a.viewClosed(v)
	default:
		body = a.viewListing()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewHeader(),
		body,
		a.viewFooter(),
	)
}

func (a *App) viewHeader() string {
	title := titleStyle.Render("Steward")
	reviewer := mutedStyle.Render("reviewer " + a.session.Reviewer())
	stats := fmt.Sprintf("pending %d · approved %d · rejected %d · total %d",
		a.stats.Pending, a.stats.Approved, a.stats.Rejected, a.stats.Total)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", reviewer, "  ", mutedStyle.Render(stats)) + "\n"
}

func (a *App) viewListing() string {
	filter := mutedStyle.Render("status: " + statusFilters[a.statusFilter])
	lines := []string{
		a.search.View() + "  " + filter,
		"",
	}
	if len(a.requests.Items()) == 0 {
		lines = append(lines, mutedStyle.Render("No requests match the current search."))
	} else {
		lines = append(lines, a.requests.View())
	}
	return strings.Join(lines, "\n")
}

func (a *App) viewRequest(v reviews.Viewing) string {
	if a.request == nil {
		return mutedStyle.Render("Loading request...")
	}
	r := a.request

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", headingStyle.Render(fmt.Sprintf("Request #%d", r.RequestNumber)),
		requestStatusStyle(r.Status).Render(string(r.Status)))
	b.WriteString(field("NPI", r.NPI))
	b.WriteString(field("Type", r.RequestType.Label()))
	b.WriteString(field("Priority", string(r.Priority)))
	b.WriteString(field("Submitted", r.SubmittedDate.Format(timeLayout)))
	b.WriteString(field("Description", r.Description))
	if r.HasChange() {
		b.WriteString(field("Current value", r.CurrentValue))
		b.WriteString(field("Proposed value", r.ProposedValue))
	}
	b.WriteString("\n")

	b.WriteString(tabBar(v.Tab) + "\n")
	if v.Tab == reviews.TabInvestigation {
		b.WriteString(panelStyle.Render(a.viewInvestigation()))
	} else {
		b.WriteString(panelStyle.Render(a.viewProfile()))
	}
	b.WriteString("\n")

	b.WriteString(panelStyle.Render(a.viewChecks()) + "\n")
	b.WriteString(a.viewTimeline() + "\n")

	b.WriteString(a.finalValue.View() + "\n")
	b.WriteString(a.notes.View() + "\n")
	b.WriteString(a.viewActions())
	return b.String()
}

func (a *App) viewProfile() string {
	if !a.profile.Found {
		return headingStyle.Render("No profile data") + "\n" +
			mutedStyle.Render(fmt.Sprintf("No NPI profile exists for %s.", a.profile.NPI))
	}

	var b strings.Builder
	for _, section := range a.profile.Sections {
		b.WriteString(headingStyle.Render(section.Title) + "\n")
		for _, f := range section.Fields {
			b.WriteString(field(f.Label, f.Value))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) viewInvestigation() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Search focus") + "  " + a.request.RequestType.Focus() + "\n")

	if a.investigation == nil {
		b.WriteString(mutedStyle.Render("Press i to search external sources."))
		return b.String()
	}

	snap := a.investigation
	for _, src := range a.deps.Investigations.Sources(a.request.RequestType) {
		res, ok := snap.Results[src.ID]
		if !ok {
			continue
		}
		name := src.Name
		if src.Recommended {
			name += " ★"
		}
		fmt.Fprintf(&b, "\n%s  %s\n", headingStyle.Render(name), resultStatusStyle(res.Status).Render(string(res.Status)))
		if res.URL != "" {
			b.WriteString(mutedStyle.Render(res.URL) + "\n")
		}
		b.WriteString(resultFields(res))
	}

	if snap.State != investigations.StateSearching {
		s := snap.Summary
		fmt.Fprintf(&b, "\nfound %d · not found %d · error %d\n%s",
			s.Found, s.NotFound, s.Error, s.Recommendation)
	}
	return strings.TrimRight(b.String(), "\n")
}

func resultFields(res investigations.Result) string {
	var b strings.Builder
	if res.Data != nil {
		for _, f := range res.Data.Fields() {
			b.WriteString(field(f.Label, f.Value))
		}
	}
	if res.Notes != "" {
		b.WriteString(mutedStyle.Render(res.Notes) + "\n")
	}
	return b.String()
}

func (a *App) viewChecks() string {
	if a.report == nil {
		return mutedStyle.Render("Validation checks unavailable.")
	}

	var b strings.Builder
	s := a.report.Summary
	fmt.Fprintf(&b, "%s  passed %d · failed %d · warning %d · pending %d\n",
		headingStyle.Render("Validation checks"), s.Passed, s.Failed, s.Warning, s.Pending)
	for _, c := range a.report.Checks {
		fmt.Fprintf(&b, "%s %s\n", checkStatusStyle(c.Status).Width(9).Render(string(c.Status)), c.Title)
		if c.Details != "" {
			b.WriteString("          " + mutedStyle.Render(c.Details) + "\n")
		}
	}
	for _, g := range a.report.Guidelines {
		b.WriteString(headingStyle.Render(g.Title) + "\n")
		for _, item := range g.Items {
			b.WriteString("  • " + item + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) viewTimeline() string {
	var parts []string
	for _, e := range a.request.Timeline() {
		label := e.Label
		if e.At != nil {
			label += " " + e.At.Format(timeLayout)
		}
		if e.Done {
			parts = append(parts, okStyle.Render("●")+" "+label)
		} else {
			parts = append(parts, mutedStyle.Render("○ "+label))
		}
	}
	return strings.Join(parts, "  →  ")
}

func (a *App) viewActions() string {
	actions := a.session.Actions(a.ctx)
	if actions.Approve && actions.Reject {
		return okStyle.Render("[a] approve") + "  " + errorStyle.Render("[r] reject")
	}
	return mutedStyle.Render("approve / reject disabled: " + actions.Reason)
}

func (a *App) viewClosed(v reviews.Closed) string {
	var b strings.Builder
	number := 0
	if a.request != nil {
		number = a.request.RequestNumber
	}
	fmt.Fprintf(&b, "%s %s\n", headingStyle.Render(fmt.Sprintf("Request #%d", number)),
		requestStatusStyle(v.Status).Render(string(v.Status)))
	if a.request != nil {
		b.WriteString(field("Final value", profiles.Display(a.request.FinalValue)))
		b.WriteString(field("Notes", profiles.Display(a.request.Notes)))
	}
	b.WriteString("\n" + mutedStyle.Render("Press enter to return to the request list."))
	return b.String()
}

func (a *App) viewFooter() string {
	var lines []string
	if a.err != nil {
		lines = append(lines, errorStyle.Render("Error: "+a.err.Error()))
	}
	if a.status != "" {
		lines = append(lines, okStyle.Render(a.status))
	}
	if a.warning != "" {
		lines = append(lines, warnStyle.Render(a.warning))
	}
	lines = append(lines, mutedStyle.Render(a.help()))
	return "\n" + strings.Join(lines, "\n")
}

func (a *App) help() string {
	switch a.focus {
	case focusSearch, focusFinalValue:
		return "enter/esc done"
	case focusNotes:
		return "esc done"
	}
	switch a.session.View().(type) {
	case reviews.Viewing:
		return "tab switch view · i investigate · v run check · f final value · n notes · a approve · r reject · esc back · q quit"
	case reviews.Closed:
		return "enter back · q quit"
	}
	return "↑/↓ move · enter open · / search · s status filter · q quit"
}

func tabBar(current reviews.Tab) string {
	render := func(t reviews.Tab, label string) string {
		if t == current {
			return activeTab.Render(label)
		}
		return inactiveTab.Render(label)
	}
	return render(reviews.TabProfile, "NPI Profile") + "   " + render(reviews.TabInvestigation, "External Search")
}

func field(label, value string) string {
	return labelStyle.Render(label) + profiles.Display(value) + "\n"
}
