package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saravenpi/switchboard/internal/listview"
)

type column[T any] struct {
	title string
	width int
	value func(T) string
}

// pagedTable is the searchable, paginated table shared by every list screen.
// The parent screen forwards messages to update and handles whatever it does
// not consume (navigation keys).
type pagedTable[T any] struct {
	title     string
	loader    *listview.Loader[T]
	pager     *listview.Paginator[T]
	columns   []column[T]
	table     table.Model
	search    textinput.Model
	searching bool
	spinner   spinner.Model
	width     int
	height    int
}

func newPagedTable[T any](title, placeholder string, loader *listview.Loader[T], cols []column[T], fields ...listview.FieldFunc[T]) pagedTable[T] {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	p := pagedTable[T]{
		title:   title,
		loader:  loader,
		pager:   listview.NewPaginator(fields...),
		columns: cols,
		search:  ti,
		spinner: s,
		width:   80,
		height:  30,
	}
	p.table = table.New(
		table.WithColumns(p.tableColumns()),
		table.WithFocused(true),
		table.WithHeight(listview.PageSize+1),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("213")).
		Background(lipgloss.Color("236")).
		Bold(true)
	p.table.SetStyles(st)
	p.table.SetHeight(listview.PageSize + 2)
	p.refresh()
	return p
}

func (p *pagedTable[T]) init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.loader.Mount())
}

func (p *pagedTable[T]) unmount() {
	p.loader.Unmount()
}

func (p *pagedTable[T]) setSize(width, height int) {
	p.width = width
	p.height = height
	p.table.SetColumns(p.tableColumns())
	p.table.SetWidth(width)
}

// tableColumns scales the configured widths down when the window is narrower
// than their sum.
func (p *pagedTable[T]) tableColumns() []table.Column {
	total := 0
	for _, c := range p.columns {
		total += c.width + 2
	}
	avail := p.width - 2
	cols := make([]table.Column, len(p.columns))
	for i, c := range p.columns {
		w := c.width
		if avail > 0 && total > avail {
			w = max(4, c.width*avail/total)
		}
		cols[i] = table.Column{Title: c.title, Width: w}
	}
	return cols
}

func (p *pagedTable[T]) refresh() {
	page := p.pager.Page()
	rows := make([]table.Row, len(page.Rows))
	for i, item := range page.Rows {
		row := make(table.Row, len(p.columns))
		for j, c := range p.columns {
			row[j] = oneLine(c.value(item))
		}
		rows[i] = row
	}
	p.table.SetRows(rows)
	p.table.SetCursor(0)
}

// selected returns the highlighted row of the current page.
func (p *pagedTable[T]) selected() (T, bool) {
	var zero T
	rows := p.pager.Page().Rows
	i := p.table.Cursor()
	if i < 0 || i >= len(rows) {
		return zero, false
	}
	return rows[i], true
}

// update consumes msg when it belongs to the table. It reports false for keys
// the parent screen should handle.
func (p *pagedTable[T]) update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case listview.LoadedMsg[T]:
		if p.loader.Accept(msg) {
			p.pager.SetSource(msg.Items)
			p.refresh()
		}
		return true, nil

	case spinner.TickMsg:
		if !p.loader.Loading() {
			return true, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return true, cmd

	case tea.KeyMsg:
		if p.searching {
			return true, p.updateSearch(msg)
		}

		switch msg.String() {
		case "/":
			p.searching = true
			p.table.Blur()
			return true, p.search.Focus()
		case "right", "l", "pgdown":
			if p.pager.Next() {
				p.refresh()
			}
			return true, nil
		case "left", "h", "pgup":
			if p.pager.Previous() {
				p.refresh()
			}
			return true, nil
		case "r":
			return true, tea.Batch(p.spinner.Tick, p.loader.Reload())
		case "up", "down", "k", "j", "home", "end", "g", "G":
			var cmd tea.Cmd
			p.table, cmd = p.table.Update(msg)
			return true, cmd
		}
	}
	return false, nil
}

func (p *pagedTable[T]) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter", "tab":
		p.searching = false
		p.search.Blur()
		p.table.Focus()
		return nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	if p.search.Value() != p.pager.SearchTerm() {
		p.pager.SetSearchTerm(p.search.Value())
		p.refresh()
	}
	return cmd
}

func (p *pagedTable[T]) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title) + "\n")
	b.WriteString(p.search.View() + "\n\n")

	page := p.pager.Page()
	switch {
	case p.loader.Loading():
		b.WriteString(fmt.Sprintf("  %s Loading...\n", p.spinner.View()))
	case p.loader.Failed():
		b.WriteString(errorStyle.Render("Load failed: "+errText(p.loader.Err())) + "\n\n")
		b.WriteString(helpStyle.Render("Press r to retry.") + "\n")
	case len(page.Rows) == 0:
		b.WriteString(normalStyle.Render("No data found.") + "\n")
	default:
		b.WriteString(p.table.View() + "\n")
	}

	b.WriteString("\n" + p.pageLine(page) + "\n")
	return b.String()
}

func (p *pagedTable[T]) pageLine(page listview.Page[T]) string {
	prev := disabledStyle.Render("← Prev")
	if p.pager.HasPrevious() {
		prev = normalStyle.Render("← Prev")
	}
	next := disabledStyle.Render("Next →")
	if p.pager.HasNext() {
		next = normalStyle.Render("Next →")
	}
	info := statusStyle.Render(fmt.Sprintf("Page %d of %d", page.CurrentPage, page.TotalPages))
	count := helpStyle.Render(fmt.Sprintf("(%d rows)", len(page.Filtered)))
	return prev + "  " + info + " " + count + "  " + next
}

func (p *pagedTable[T]) searchActive() bool { return p.searching }

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
