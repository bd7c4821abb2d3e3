package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateClients:
		content = docStyle.Render(m.clientSheet.View())
	case StateWorkers:
		content = docStyle.Render(m.workerSheet.View())
	case StateTasks:
		content = docStyle.Render(m.taskSheet.View())
	case StateFindings:
		content = docStyle.Render(m.findingsList.View())
	case StateFixing:
		content = docStyle.Render(m.form.View())
	}

	sections := []string{
		m.viewTabs(),
		m.viewStatus(),
		content,
	}
	if m.formError != "" {
		sections = append(sections, errorStyle.Render("  "+m.formError))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Clients", "Workers", "Tasks", "Findings"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	errs := m.report.ErrorCount()
	warns := m.report.WarningCount()
	if errs == 0 && warns == 0 {
		return okStyle.Render("  ✓ no findings")
	}

	status := ""
	if errs > 0 {
		status += errorStyle.Render(fmt.Sprintf("✗ %d error(s)", errs))
	}
	if warns > 0 {
		if status != "" {
			status += "  "
		}
		status += warnStyle.Render(fmt.Sprintf("⚠ %d warning(s)", warns))
	}
	return "  " + status
}
