// Package theme defines the closed set of badge color themes.
package theme

import "strings"

// Theme holds the color palette the renderer needs.
type Theme struct {
	Name       string
	Background string
	CardBg     string
	MiniCardBg string
	Text       string
	Accent     string
	Border     string
	Glow       string
	Caption    string
}

// DefaultName is the theme used when the caller requests none or an unknown one.
const DefaultName = "uplink"

// uplinkGreen anchors the default palette.
const uplinkGreen = "#6bff7a"

var registry = map[string]Theme{
	"uplink": {
		Name:       "uplink",
		Background: "#0d0d0f",
		CardBg:     "#131416",
		MiniCardBg: "#1a1b1d",
		Text:       "#e5e5e5",
		Accent:     uplinkGreen,
		Border:     uplinkGreen + "40",
		Glow:       uplinkGreen,
		Caption:    "#6fe86f",
	},
	"dark": {
		Name:       "dark",
		Background: "#0b0e14",
		CardBg:     "#11151c",
		MiniCardBg: "#161b24",
		Text:       "#c9d1d9",
		Accent:     "#58a6ff",
		Border:     "#58a6ff40",
		Glow:       "#58a6ff",
		Caption:    "#8b949e",
	},
	"light": {
		Name:       "light",
		Background: "#ffffff",
		CardBg:     "#f6f8fa",
		MiniCardBg: "#ffffff",
		Text:       "#24292f",
		Accent:     "#1a7f37",
		Border:     "#1a7f3740",
		Glow:       "#1a7f37",
		Caption:    "#57606a",
	},
}

// Lookup resolves a theme by name, case-insensitively. Unknown or empty names
// fall back to the default theme.
func Lookup(name string) Theme {
	if t, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return registry[DefaultName]
}

// Known reports whether name resolves to a registered theme.
func Known(name string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names lists the registered theme names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
