package world

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer draws the board as a bordered character grid: + hunter, W wumpus,
// O hole, $ treasure.
type Renderer struct {
	hunter   lipgloss.Style
	wumpus   lipgloss.Style
	hole     lipgloss.Style
	treasure lipgloss.Style
	frame    lipgloss.Style
}

func NewRenderer() *Renderer {
	return &Renderer{
		hunter:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		wumpus:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		hole:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		treasure: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		frame:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
}

// Board renders the current world state, top row first (highest Y on top).
func (r *Renderer) Board(e *Env) string {
	var b strings.Builder
	horizontal := r.frame.Render(strings.Repeat("-", 2*e.Width()+1))
	b.WriteString(horizontal)
	b.WriteByte('\n')

	wumpus, alive := e.WumpusPosition()
	for y := e.Height() - 1; y >= 0; y-- {
		b.WriteString(r.frame.Render("|"))
		for x := 0; x < e.Width(); x++ {
			p := Point{x, y}
			cell := " "
			switch {
			case p == e.AgentPosition():
				cell = r.hunter.Render("+")
			case alive && p == wumpus:
				cell = r.wumpus.Render("W")
			case p == e.HolePosition():
				cell = r.hole.Render("O")
			case p == e.TreasurePosition():
				cell = r.treasure.Render("$")
			}
			b.WriteString(cell)
			b.WriteString(r.frame.Render("|"))
		}
		b.WriteByte('\n')
		b.WriteString(horizontal)
		b.WriteByte('\n')
	}
	return b.String()
}

// Heatmap renders per-cell visit counts, top row first. visits is indexed
// [x][y]; unvisited cells print as dots.
func (r *Renderer) Heatmap(visits [][]int) string {
	if len(visits) == 0 {
		return ""
	}
	var b strings.Builder
	height := len(visits[0])
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < len(visits); x++ {
			if visits[x][y] == 0 {
				b.WriteString("   .")
			} else {
				fmt.Fprintf(&b, "%4d", visits[x][y])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
