package ui

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/saravenpi/switchboard/internal/detail"
	"github.com/saravenpi/switchboard/internal/models"
)

type profileView struct {
	rows     []detail.Row
	viewport viewport.Model
}

func newProfileView(u models.UserRecord, width, height int) profileView {
	fields := u.Fields
	if len(fields) == 0 {
		if data, err := json.Marshal(u); err == nil {
			_ = json.Unmarshal(data, &fields)
		}
	}
	p := profileView{
		rows:     detail.Project(fields),
		viewport: viewport.New(width, height),
	}
	p.setSize(width, height)
	return p
}

func (p *profileView) setSize(width, height int) {
	p.viewport.Width = max(20, width-4)
	p.viewport.Height = max(5, height-10)
	p.viewport.SetContent(p.render())
}

func (p *profileView) render() string {
	if len(p.rows) == 0 {
		return normalStyle.Render("No data available.")
	}
	valueWidth := max(10, p.viewport.Width-22)

	var b strings.Builder
	for _, row := range p.rows {
		if row.Structured {
			b.WriteString(labelStyle.Render(row.Label) + "\n")
			b.WriteString(indent.String(wordwrap.String(row.Value, valueWidth), 2) + "\n")
			continue
		}
		lines := strings.Split(wordwrap.String(row.Value, valueWidth), "\n")
		b.WriteString(labelStyle.Render(row.Label) + normalStyle.Render(lines[0]) + "\n")
		for _, l := range lines[1:] {
			b.WriteString(labelStyle.Render("") + normalStyle.Render(l) + "\n")
		}
	}
	return b.String()
}

func (p *profileView) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *profileView) view() string {
	return titleStyle.Render("View Form Data") + "\n" + p.viewport.View()
}
