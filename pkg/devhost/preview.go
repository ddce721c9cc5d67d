package devhost

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wizard.dev/pluginsdk/pkg/element"
)

// KeyHandler is implemented by views that react to key presses in the preview.
// HandleKey reports whether the key was consumed.
type KeyHandler interface {
	HandleKey(key string) bool
}

const maxLogLines = 8

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("240"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// PreviewOption configures a Preview.
type PreviewOption func(*Preview)

// WithFixtures sets attributes applied to every element the preview attaches.
func WithFixtures(attrs map[string]string) PreviewOption {
	return func(p *Preview) {
		for k, v := range attrs {
			p.fixtures[k] = v
		}
	}
}

// WithTagFixtures sets attributes applied only to elements of tag. They take
// precedence over WithFixtures.
func WithTagFixtures(tag string, attrs map[string]string) PreviewOption {
	return func(p *Preview) {
		m := p.tagFixtures[tag]
		if m == nil {
			m = make(map[string]string)
			p.tagFixtures[tag] = m
		}
		for k, v := range attrs {
			m[k] = v
		}
	}
}

// Preview is an interactive terminal host listing registered elements. The
// selected element is attached with fixture attributes; its current view and
// the events it dispatches are shown live.
type Preview struct {
	doc         *Document
	tags        []string
	fixtures    map[string]string
	tagFixtures map[string]map[string]string
	selected    int
	active      *Node
	log         []string
	err         error
}

// NewPreview returns a preview of tags hosted in doc.
func NewPreview(doc *Document, tags []string, opts ...PreviewOption) *Preview {
	p := &Preview{
		doc:         doc,
		tags:        tags,
		fixtures:    make(map[string]string),
		tagFixtures: make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	doc.AddEventListener(p.record)
	return p
}

// Run starts the terminal program and blocks until the user quits.
func (p *Preview) Run() error {
	program := tea.NewProgram(p, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	return nil
}

// Active returns the attached node, if any.
func (p *Preview) Active() *Node { return p.active }

// Log returns the recorded event lines, oldest first.
func (p *Preview) Log() []string { return append([]string(nil), p.log...) }

func (p *Preview) Init() tea.Cmd {
	return nil
}

func (p *Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "ctrl+c":
		return p, tea.Quit
	}

	if p.active != nil {
		p.updateActive(key.String())
		return p, nil
	}

	switch key.String() {
	case "q":
		return p, tea.Quit
	case "up", "k":
		if p.selected > 0 {
			p.selected--
		}
	case "down", "j":
		if p.selected < len(p.tags)-1 {
			p.selected++
		}
	case "enter":
		p.attach()
	}
	return p, nil
}

func (p *Preview) updateActive(key string) {
	if key == "esc" {
		p.doc.Remove(p.active)
		p.active = nil
		return
	}
	root := p.active.Root()
	if root == nil {
		return
	}
	if handler, ok := root.View().(KeyHandler); ok {
		p.doc.Batch(func() {
			handler.HandleKey(key)
		})
	}
}

func (p *Preview) attach() {
	if len(p.tags) == 0 {
		return
	}
	tag := p.tags[p.selected]
	node, err := p.doc.CreateElement(tag)
	if err != nil {
		p.err = err
		return
	}
	p.err = nil

	p.doc.Batch(func() {
		for k, v := range p.fixtures {
			node.SetAttribute(k, v)
		}
		for k, v := range p.tagFixtures[tag] {
			node.SetAttribute(k, v)
		}
		p.doc.Append(node)
	})
	p.active = node
}

func (p *Preview) record(n *Node, ev element.Event) {
	line := fmt.Sprintf("%s  %s", n.Tag(), ev.Type)
	if ev.Detail != nil {
		if raw, err := json.Marshal(ev.Detail); err == nil {
			line += "  " + string(raw)
		}
	}
	p.log = append(p.log, line)
	if len(p.log) > maxLogLines {
		p.log = p.log[len(p.log)-maxLogLines:]
	}
}

func (p *Preview) View() string {
	sections := []string{titleStyle.Render("Plugin element preview")}

	if p.active == nil {
		sections = append(sections, p.renderTags())
	} else {
		sections = append(sections, p.renderActive())
	}

	if p.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", p.err)))
	}

	sections = append(sections, p.renderLog(), p.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (p *Preview) renderTags() string {
	if len(p.tags) == 0 {
		return mutedStyle.Render("No elements registered.")
	}
	rows := make([]string, 0, len(p.tags))
	for i, tag := range p.tags {
		if i == p.selected {
			rows = append(rows, selectedStyle.Render("> "+tag))
		} else {
			rows = append(rows, "  "+tag)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (p *Preview) renderActive() string {
	header := fmt.Sprintf("<%s>", p.active.Tag())
	root := p.active.Root()
	body := mutedStyle.Render("(not rendered)")
	if root != nil && root.Renders() > 0 {
		header += mutedStyle.Render(fmt.Sprintf("  renders: %d", root.Renders()))
		body = renderView(root.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, panelStyle.Render(body))
}

func (p *Preview) renderLog() string {
	if len(p.log) == 0 {
		return mutedStyle.Render("No events yet.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{mutedStyle.Render("Events:")}, p.log...)...)
}

func (p *Preview) renderFooter() string {
	if p.active != nil {
		return mutedStyle.Render("Controls: [Esc] Detach | keys go to the element | [Ctrl+C] Quit")
	}
	return mutedStyle.Render("Controls: [↑↓] Select | [Enter] Attach | [q] Quit")
}

func renderView(v element.View) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%+v", v))
	}
}
