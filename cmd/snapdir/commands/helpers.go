package commands

import (
	"github.com/fatih/color"

	"github.com/thoreinstein/snapdir/internal/paths"
)

// Output styles. fatih/color disables them when stdout is not a terminal.
var (
	styleHeader = color.New(color.FgCyan, color.Bold).SprintFunc()
	styleBold   = color.New(color.Bold).SprintFunc()
	styleOK     = color.New(color.FgGreen).SprintFunc()
	styleWarn   = color.New(color.FgYellow).SprintFunc()
	styleFail   = color.New(color.FgRed).SprintFunc()
	styleMuted  = color.New(color.FgHiBlack).SprintFunc()
)

// locationFlag holds the value of the --location flag shared by the
// catalogue commands.
var locationFlag []string

// resolveLocations returns the locations named by --location, or every
// configured location.
func resolveLocations() ([]string, error) {
	if len(locationFlag) > 0 {
		out := make([]string, len(locationFlag))
		for i, l := range locationFlag {
			out[i] = paths.ExpandHome(l)
		}
		return out, nil
	}

	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Locations, nil
}
