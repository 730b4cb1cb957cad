package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/uplinkhq/trophy/internal/domain/github"
	"github.com/uplinkhq/trophy/internal/domain/theme"
	"github.com/uplinkhq/trophy/internal/domain/trophy"
	"github.com/uplinkhq/trophy/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleTrophies() []trophy.Trophy {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return trophy.Derive(&github.Profile{CreatedAt: "2020-01-01T00:00:00Z"}, nil, nil, now)
}

func TestBadge(t *testing.T) {
	Convey("Given derived trophies and a theme", t, func() {
		th := theme.Lookup(theme.DefaultName)
		trophies := sampleTrophies()

		Convey("When rendering the badge", func() {
			svg := string(render.Badge("octocat", trophies, th, 3))

			Convey("Then it is a complete SVG document", func() {
				So(svg, ShouldStartWith, "<svg")
				So(svg, ShouldEndWith, "</svg>\n")
				So(svg, ShouldContainSubstring, `xmlns="http://www.w3.org/2000/svg"`)
			})

			Convey("And it carries the username header and every trophy title", func() {
				So(svg, ShouldContainSubstring, "GitHub Trophy — octocat")
				for _, tr := range trophies {
					So(svg, ShouldContainSubstring, tr.Title)
				}
			})

			Convey("And it uses the theme palette", func() {
				So(svg, ShouldContainSubstring, th.Background)
				So(svg, ShouldContainSubstring, th.Accent)
			})

			Convey("And it is byte-stable for identical input", func() {
				again := string(render.Badge("octocat", trophies, th, 3))
				So(again, ShouldEqual, svg)
			})
		})

		Convey("When the column count changes the grid height changes", func() {
			three := string(render.Badge("octocat", trophies, th, 3))
			five := string(render.Badge("octocat", trophies, th, 5))
			So(five, ShouldNotEqual, three)
			// 10 trophies: 4 rows at 3 columns, 2 rows at 5 columns.
			So(strings.Count(three, "<g transform"), ShouldEqual, 10)
			So(strings.Count(five, "<g transform"), ShouldEqual, 10)
		})

		Convey("When columns is zero or negative it falls back to the default", func() {
			fallback := string(render.Badge("octocat", trophies, th, 0))
			explicit := string(render.Badge("octocat", trophies, th, render.DefaultColumns))
			So(fallback, ShouldEqual, explicit)
		})

		Convey("When the username carries markup it is escaped", func() {
			svg := string(render.Badge(`<script>alert("x")</script>`, trophies, th, 3))
			So(svg, ShouldNotContainSubstring, "<script>")
			So(svg, ShouldContainSubstring, "&lt;script&gt;")
		})

		Convey("When the trophy list is filtered the cells shrink accordingly", func() {
			filtered := trophy.FilterTitles(trophies, []string{"Stars", "Repos"})
			svg := string(render.Badge("octocat", filtered, th, 3))
			So(strings.Count(svg, "<g transform"), ShouldEqual, 8)
		})
	})
}
