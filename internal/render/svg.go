// Package render produces the SVG badge document from derived trophies.
package render

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/uplinkhq/trophy/internal/domain/theme"
	"github.com/uplinkhq/trophy/internal/domain/trophy"
	"github.com/uplinkhq/trophy/pkg/metrics"
)

// Badge geometry constants.
const (
	badgeWidth     = 750
	cardX          = 20
	cardY          = 70
	cellPitchX     = 245
	cellPitchY     = 95
	miniCardWidth  = 220
	miniCardHeight = 78
	footerHeight   = 150
	cardPadding    = 40

	// DefaultColumns is the grid width when the caller supplies none.
	DefaultColumns = 3
)

const fontStack = "Inter,Segoe UI,system-ui,sans-serif"

// Badge renders the trophy grid as a complete SVG document. columns below 1
// falls back to the default.
func Badge(username string, trophies []trophy.Trophy, th theme.Theme, columns int) []byte {
	start := time.Now()
	if columns < 1 {
		columns = DefaultColumns
	}

	rows := (len(trophies) + columns - 1) / columns
	cardWidth := badgeWidth - 2*cardX
	cardHeight := rows*cellPitchY + cardPadding
	totalHeight := cardHeight + footerHeight

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", badgeWidth, totalHeight)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`+"\n", badgeWidth, totalHeight, th.Background)
	fmt.Fprintf(&b, `<rect x="%d" y="20" width="%d" height="%d" rx="22" fill="%s" stroke="%s" stroke-width="1.5" style="filter: drop-shadow(0 0 18px %s22);"/>`+"\n",
		cardX, cardWidth, cardHeight, th.CardBg, th.Border, th.Glow)
	fmt.Fprintf(&b, `<text x="%d" y="58" style="font-family:%s; font-size:27px; font-weight:800; fill:%s;">🏆 GitHub Trophy — %s</text>`+"\n",
		cardX+25, fontStack, th.Accent, escape(username))

	for i, t := range trophies {
		gx := cardX + (i%columns)*cellPitchX
		gy := cardY + (i/columns)*cellPitchY
		fmt.Fprintf(&b, `<g transform="translate(%d, %d)">`, gx, gy)
		miniCard(&b, t, th)
		b.WriteString("</g>\n")
	}

	footer(&b, cardHeight, th)
	b.WriteString("</svg>\n")

	metrics.RecordRenderLatency(float64(time.Since(start).Milliseconds()))
	return []byte(b.String())
}

// miniCard renders one trophy cell.
func miniCard(b *strings.Builder, t trophy.Trophy, th theme.Theme) {
	fmt.Fprintf(b, `<rect width="%d" height="%d" rx="12" fill="%s" stroke="%s" stroke-width="1.2" style="filter: drop-shadow(0 0 6px %s33);"/>`,
		miniCardWidth, miniCardHeight, th.MiniCardBg, th.Border, th.Glow)
	fmt.Fprintf(b, `<text x="18" y="28" style="font-family:%s; font-size:16px; font-weight:600; fill:%s;">%s %s</text>`,
		fontStack, th.Text, t.Icon, escape(t.Title))
	fmt.Fprintf(b, `<text x="18" y="55" style="font-family:%s; font-size:18px; font-weight:700; fill:%s;">%s</text>`,
		fontStack, th.Accent, escape(t.Value))
	if t.Rarity != trophy.RarityNone {
		fmt.Fprintf(b, `<text x="%d" y="28" text-anchor="end" style="font-family:%s; font-size:11px; fill:%s; opacity:0.8;">%s</text>`,
			miniCardWidth-12, fontStack, th.Accent, t.Rarity.String())
	}
}

// footer renders the two caption lines beneath the card.
func footer(b *strings.Builder, cardHeight int, th theme.Theme) {
	center := badgeWidth / 2
	fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="middle" style="font-family:%s; font-size:12px; fill:%s; opacity:0.9;">Contributions &amp; Engagement reflect recent public GitHub activity</text>`+"\n",
		center, cardHeight+68, fontStack, th.Caption)
	fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="middle" style="font-family:%s; font-size:12px; fill:%s; opacity:0.9;">(≈ last 300 events, not the all-time contribution total)</text>`+"\n",
		center, cardHeight+88, fontStack, th.Caption)
}

// escape makes caller-supplied strings safe to interpolate into SVG markup.
func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
