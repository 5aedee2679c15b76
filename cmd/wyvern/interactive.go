package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wyvern-compute/wyvern/program"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type section int

const (
	sectionOperations section = iota
	sectionSymbols
	sectionDirectories
	sectionCount
)

var sectionNames = [...]string{
	sectionOperations:  "operations",
	sectionSymbols:     "symbols",
	sectionDirectories: "i/o",
}

type inspectModel struct {
	filename string
	p        *program.Program
	verdict  string
	valid    bool

	sections [sectionCount][]string
	active   section
	viewport viewport.Model
	ready    bool
}

func newInspectModel(filename string, p *program.Program) *inspectModel {
	m := &inspectModel{filename: filename, p: p}

	if err := p.Validate(); err != nil {
		m.verdict = err.Error()
	} else {
		m.valid = true
		m.verdict = "structurally valid"
	}

	m.sections[sectionOperations] = operationLines(p.Operations, 0)
	m.sections[sectionSymbols] = symbolLines(p)
	m.sections[sectionDirectories] = ioLines(p)
	return m
}

func symbolLines(p *program.Program) []string {
	tids := make([]program.Token, 0, len(p.Symbols))
	for tid := range p.Symbols {
		tids = append(tids, tid)
	}
	sort.Slice(tids, func(i, j int) bool { return tids[i] < tids[j] })

	lines := make([]string, 0, len(tids))
	for _, tid := range tids {
		sym := p.Symbols[tid]
		line := fmt.Sprintf("t%-5d %-9s %s", tid, sym.Kind, sym.Type)
		if entry, ok := p.Storage[tid]; ok {
			switch entry.Class {
			case program.StorageVariable:
				line += "  [variable storage]"
			default:
				line += fmt.Sprintf("  [%s max=%d]", entry.Class, entry.MaxSize)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func ioLines(p *program.Program) []string {
	var lines []string
	lines = append(lines, "inputs:")
	lines = append(lines, directoryLines(p.Input, p)...)
	lines = append(lines, "", "outputs:")
	lines = append(lines, directoryLines(p.Output, p)...)
	return lines
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right":
			m.active = (m.active + 1) % sectionCount
			m.setContent()
			return m, nil
		case "shift+tab", "left":
			m.active = (m.active + sectionCount - 1) % sectionCount
			m.setContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		headerHeight := 3
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.setContent()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *inspectModel) setContent() {
	lines := m.sections[m.active]
	if len(lines) == 0 {
		m.viewport.SetContent(helpStyle.Render("(empty)"))
		return
	}
	content := ""
	for i, line := range lines {
		if i > 0 {
			content += "\n"
		}
		content += line
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *inspectModel) View() string {
	if !m.ready {
		return "loading..."
	}

	title := titleStyle.Render("wyvern " + m.filename)
	verdict := okStyle.Render(m.verdict)
	if !m.valid {
		verdict = errorStyle.Render(m.verdict)
	}

	tabs := ""
	for s := section(0); s < sectionCount; s++ {
		name := sectionNames[s]
		if s == m.active {
			tabs += activeTabStyle.Render(name)
		} else {
			tabs += tabStyle.Render(" " + name + " ")
		}
		tabs += " "
	}

	help := helpStyle.Render("tab: switch section • ↑/↓: scroll • q: quit")

	return title + " " + verdict + "\n" + tabs + "\n\n" + m.viewport.View() + "\n" + help
}

func runInteractive(filename string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("inspect requires a terminal; use show for plain output")
	}

	p, err := loadProgram(filename)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(newInspectModel(filename, p), tea.WithAltScreen())
	_, err = prog.Run()
	return err
}
