package main

import (
	"fmt"
	"strings"

	"github.com/kylodelgado/nychapp/internal/models"
	"github.com/kylodelgado/nychapp/internal/services"

	"github.com/charmbracelet/lipgloss"
)

// toneColors maps badge tones to terminal colors. Tones come from the status
// table in internal/models; concrete colors live here with the rest of the
// presentation.
var toneColors = map[models.Tone]lipgloss.Color{
	models.ToneBlue:    lipgloss.Color("4"),
	models.ToneOrange:  lipgloss.Color("208"),
	models.TonePurple:  lipgloss.Color("5"),
	models.ToneYellow:  lipgloss.Color("3"),
	models.ToneGreen:   lipgloss.Color("2"),
	models.ToneNeutral: lipgloss.Color("8"),
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	numberStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	commentStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// renderBadge renders the status label with its tone color and glyph.
func renderBadge(status string) string {
	badge := models.StatusBadge(status)
	style := lipgloss.NewStyle().Foreground(toneColors[badge.Tone])
	return style.Render(badge.Glyph + " " + status)
}

// renderTicketRow renders one line of the ticket list.
func renderTicketRow(t *models.Ticket) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		numberStyle.Render("#"+t.Number),
		renderBadge(t.Status),
		t.Subject,
		subtleStyle.Render(t.CreatedAt.Format("Jan 2, 2006 3:04 PM")))
}

// renderResult renders a full search outcome: the resolved customer, the
// lead ticket in detail, and the rest of the history as rows.
func renderResult(result *services.Result) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Tickets for "+result.Customer.Name) + "\n\n")

	for i := range result.Tickets {
		t := &result.Tickets[i]
		if i == 0 {
			b.WriteString(renderTicketDetail(t))
			if len(result.Tickets) > 1 {
				b.WriteString("\n" + headerStyle.Render("Other tickets") + "\n")
			}
			continue
		}
		b.WriteString(renderTicketRow(t) + "\n")
	}

	return b.String()
}

// renderTicketDetail renders the lead ticket with its customer-visible
// comments. Hidden comments stay off the screen by contract.
func renderTicketDetail(t *models.Ticket) string {
	var b strings.Builder

	b.WriteString(renderTicketRow(t) + "\n")
	b.WriteString(subtleStyle.Render("  "+t.DisplayProblemType()) + "\n")

	visible := t.VisibleComments()
	if len(visible) == 0 {
		return b.String()
	}

	b.WriteString(headerStyle.Render("Updates") + "\n")
	for i := range visible {
		c := &visible[i]
		line := fmt.Sprintf("%s: %s (%s, %s)",
			c.DisplaySubject(),
			c.DisplayBody(),
			c.DisplayTech(),
			c.CreatedAt.Format("Jan 2, 2006"))
		b.WriteString(commentStyle.Render(line) + "\n")
	}

	return b.String()
}

// renderEmptyState is the neutral no-match message; a miss is not an error.
func renderEmptyState() string {
	return subtleStyle.Render("No tickets found for that search.")
}
