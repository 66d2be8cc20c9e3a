package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/config"
	"github.com/matzehuels/stackdeck/pkg/deck"
)

// frameInterval is the tick that advances the deck's clock.
const frameInterval = 16 * time.Millisecond

// Card styles
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1).
			Width(14).
			Align(lipgloss.Center)
	cardTopStyle      = cardStyle.BorderForeground(colorCyan).Bold(true)
	cardSelectedStyle = cardStyle.BorderForeground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PlayModel - Interactive deck
// =============================================================================

type tickMsg time.Time

// PlayModel is the bubbletea model for the interactive deck. The deck runs
// on a virtual clock advanced by frame ticks, so every deck callback runs
// inside Update.
type PlayModel struct {
	Deck    *deck.Deck
	Surface *anim.MemorySurface
	Clock   *anim.VirtualClock
	Keys    config.Keys

	Cursor int // index into ByRank
	Status string

	last    time.Time
	updates int
}

// NewPlayModel wires a model to a deck built on surface and clock.
func NewPlayModel(d *deck.Deck, surface *anim.MemorySurface, clock *anim.VirtualClock, keys config.Keys) *PlayModel {
	m := &PlayModel{Deck: d, Surface: surface, Clock: clock, Keys: keys}
	d.On(func() { m.updates++ })
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *PlayModel) Init() tea.Cmd {
	m.last = time.Now()
	return tick()
}

func (m *PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.Clock.Advance(now.Sub(m.last))
		}
		m.last = now
		return m, tick()
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

// handleKey applies the action bound to key.
func (m *PlayModel) handleKey(key string) tea.Cmd {
	d := m.Deck
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return nil
	case "down", "j":
		if m.Cursor < d.Len()-1 {
			m.Cursor++
		}
		return nil
	}

	switch action := m.Keys.Action(key); action {
	case "next", "prev":
		d.HandleTrigger(action)
		m.Status = action
	case "fan":
		d.Fan(nil)
		m.Status = "fan"
	case "close":
		d.Close()
		m.Status = "close"
	case "front":
		ids := d.ByRank()
		if m.Cursor < len(ids) {
			id := ids[m.Cursor]
			if d.HandleClick(id) {
				m.Status = "front " + id
				m.Cursor = 0
			} else {
				m.Status = "busy"
			}
		}
	case "quit":
		return tea.Quit
	}
	return nil
}

func (m *PlayModel) View() string {
	var b strings.Builder
	d := m.Deck

	b.WriteString(StyleTitle.Render("stackdeck"))
	b.WriteString("  ")
	b.WriteString(m.stateLine())
	b.WriteString("\n\n")

	ids := d.ByRank()
	cards := make([]string, len(ids))
	for i, id := range ids {
		cards[i] = m.renderCard(i, id)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	b.WriteString(listDimStyle.Render(m.help()))
	if m.Status != "" {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("last: %s · %d updates", m.Status, m.updates)))
	}
	return b.String()
}

func (m *PlayModel) stateLine() string {
	d := m.Deck
	state := "closed"
	if !d.Closed() {
		state = "fanned"
	}
	if d.Animating() {
		state += " · animating"
	}
	if n := d.Pending(); n > 0 {
		state += fmt.Sprintf(" · %d queued", n)
	}
	return StyleDim.Render(state)
}

func (m *PlayModel) renderCard(pos int, id string) string {
	it, _ := m.Deck.Item(id)
	body := []string{id, StyleNumber.Render(fmt.Sprint(it.Rank))}
	if t := describeTransform(m.Surface.StyleOf(id, "transform")); t != "" {
		body = append(body, StyleDim.Render(t))
	}

	style := cardStyle
	switch {
	case pos == m.Cursor:
		style = cardSelectedStyle
	case pos == 0:
		style = cardTopStyle
	}
	card := style.Render(strings.Join(body, "\n"))
	if m.Surface.StyleOf(id, "opacity") == "0" {
		card = styleFaded.Render(card)
	}
	return card
}

func (m *PlayModel) help() string {
	first := func(keys []string) string {
		if len(keys) == 0 {
			return "-"
		}
		if keys[0] == " " {
			return "space"
		}
		return keys[0]
	}
	k := m.Keys
	return fmt.Sprintf("%s next  %s prev  %s fan  %s close  ↑/↓ select  %s front  %s quit",
		first(k.Next), first(k.Prev), first(k.Fan), first(k.Close), first(k.Front), first(k.Quit))
}

var transformNumRe = regexp.MustCompile(`(translate|rotate)\(([-0-9.e]+)(?:px|deg)?`)

// describeTransform shortens a transform to "→12 ↻30°" for a card face.
func describeTransform(t string) string {
	if t == "" || t == "none" {
		return ""
	}
	var parts []string
	for _, m := range transformNumRe.FindAllStringSubmatch(t, -1) {
		if m[2] == "0" {
			continue
		}
		switch m[1] {
		case "translate":
			parts = append(parts, "→"+m[2])
		case "rotate":
			parts = append(parts, "↻"+m[2]+"°")
		}
	}
	return strings.Join(parts, " ")
}
