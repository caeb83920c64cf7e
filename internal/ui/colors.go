package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = newPalette(paletteColors{
	title: "#7D56F4",
	ok:    "#04B575",
	err:   "#FF0000",
	warn:  "#FFA500",
	help:  "#626262",
})

type paletteColors struct {
	title, ok, err, warn, help lipgloss.Color
}

// palette holds the styles used by the harvest and result views
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func newPalette(c paletteColors) palette {
	fg := func(color lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(color)
	}

	return palette{
		title: fg(c.title).Bold(true).MarginBottom(1),
		ok:    fg(c.ok).Bold(true),
		err:   fg(c.err).Bold(true),
		warn:  fg(c.warn),
		help:  fg(c.help).Italic(true),
	}
}
