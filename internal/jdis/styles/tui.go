package styles

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

var (
	// MenuBar is the key help line at the bottom of the viewer.
	MenuBar = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	// Header names the input and the decoding settings.
	Header = lipgloss.NewStyle().
		Foreground(lipgloss.Color(charmtone.Zest.Hex())).
		Background(lipgloss.Color(charmtone.Charple.Hex())).
		Bold(true).
		Padding(0, 1)

	// Setting marks an option that is on in the header.
	Setting = lipgloss.NewStyle().
		Foreground(lipgloss.Color(charmtone.Guac.Hex()))

	// Error shows a decode failure below the listing.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color(charmtone.Cheeky.Hex())).
		Bold(true)
)
