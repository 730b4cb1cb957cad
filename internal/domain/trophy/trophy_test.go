package trophy_test

import (
	"testing"
	"time"

	"github.com/uplinkhq/trophy/internal/domain/github"
	"github.com/uplinkhq/trophy/internal/domain/trophy"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int { return &v }

func pushEvents(n int) []github.Event {
	events := make([]github.Event, n)
	for i := range events {
		events[i] = github.Event{Type: github.EventPush}
	}
	return events
}

func prEvents(n int) []github.Event {
	events := make([]github.Event, n)
	for i := range events {
		events[i] = github.Event{Type: github.EventPullRequest}
	}
	return events
}

func starsRepos(counts ...int) []github.Repository {
	repos := make([]github.Repository, len(counts))
	for i, c := range counts {
		repos[i] = github.Repository{Name: "repo", StargazersCount: c}
	}
	return repos
}

func TestDerive(t *testing.T) {
	Convey("Given a fully populated profile", t, func() {
		now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		profile := &github.Profile{
			Login:       "octocat",
			Followers:   intp(42),
			PublicRepos: intp(8),
			Type:        "User",
			CreatedAt:   "2011-01-25T18:44:36Z",
		}
		repos := []github.Repository{
			{Name: "hello", StargazersCount: 12},
			{Name: "world", StargazersCount: 3, Fork: true},
		}
		events := append(pushEvents(10), prEvents(4)...)

		Convey("When deriving trophies", func() {
			trophies := trophy.Derive(profile, repos, events, now)

			Convey("Then the sequence has the fixed order and length", func() {
				So(len(trophies), ShouldEqual, 10)
				titles := make([]string, len(trophies))
				for i, tr := range trophies {
					titles[i] = tr.Title
				}
				So(titles, ShouldResemble, trophy.Titles)
			})

			Convey("And each fact carries the expected value", func() {
				byTitle := map[string]trophy.Trophy{}
				for _, tr := range trophies {
					byTitle[tr.Title] = tr
				}
				So(byTitle[trophy.TitleFollowers].Value, ShouldEqual, "42")
				So(byTitle[trophy.TitleStars].Value, ShouldEqual, "15")
				So(byTitle[trophy.TitleRepos].Value, ShouldEqual, "8")
				So(byTitle[trophy.TitleAccountAge].Value, ShouldEqual, "15 years")
				So(byTitle[trophy.TitleContributions].Value, ShouldEqual, "14")
				So(byTitle[trophy.TitlePopularRepo].Value, ShouldEqual, "hello (12★)")
				So(byTitle[trophy.TitleEngagementScore].Value, ShouldEqual, "Medium (22)")
				So(byTitle[trophy.TitleActiveDeveloper].Value, ShouldEqual, "No")
				So(byTitle[trophy.TitleStarCollector].Value, ShouldEqual, "Level 1")
				So(byTitle[trophy.TitleOpenSourceHero].Value, ShouldEqual, "Yes")
			})

			Convey("And derivation is deterministic", func() {
				again := trophy.Derive(profile, repos, events, now)
				So(again, ShouldResemble, trophies)
			})
		})
	})

	Convey("Given missing collections", t, func() {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		Convey("When the event list is absent", func() {
			trophies := trophy.Derive(&github.Profile{}, nil, nil, now)

			Convey("Then contributions and engagement degrade to zero, not failure", func() {
				byTitle := map[string]trophy.Trophy{}
				for _, tr := range trophies {
					byTitle[tr.Title] = tr
				}
				So(byTitle[trophy.TitleContributions].Value, ShouldEqual, "0")
				So(byTitle[trophy.TitleEngagementScore].Value, ShouldEqual, "Low (0)")
				So(byTitle[trophy.TitleActiveDeveloper].Value, ShouldEqual, "No")
			})
		})

		Convey("When the profile itself is nil", func() {
			trophies := trophy.Derive(nil, nil, nil, now)

			Convey("Then every fact degrades to its zero default", func() {
				So(len(trophies), ShouldEqual, 10)
				byTitle := map[string]trophy.Trophy{}
				for _, tr := range trophies {
					byTitle[tr.Title] = tr
				}
				So(byTitle[trophy.TitleFollowers].Value, ShouldEqual, "0")
				So(byTitle[trophy.TitleStars].Value, ShouldEqual, "0")
				So(byTitle[trophy.TitleAccountAge].Value, ShouldEqual, "0 years")
				So(byTitle[trophy.TitlePopularRepo].Value, ShouldEqual, "None")
				So(byTitle[trophy.TitleStarCollector].Value, ShouldEqual, "Level 0")
				So(byTitle[trophy.TitleOpenSourceHero].Value, ShouldEqual, "No")
			})
		})

		Convey("When created_at is malformed", func() {
			profile := &github.Profile{CreatedAt: "yesterday"}
			trophies := trophy.Derive(profile, nil, nil, now)

			Convey("Then account age defaults to 0 years", func() {
				So(trophies[3].Title, ShouldEqual, trophy.TitleAccountAge)
				So(trophies[3].Value, ShouldEqual, "0 years")
			})
		})
	})
}

func TestTotalStars(t *testing.T) {
	Convey("Given repository lists", t, func() {
		Convey("When summing stars across repositories", func() {
			So(trophy.TotalStars(starsRepos(1, 2, 3, 4)), ShouldEqual, 10)
		})

		Convey("When the list is empty or nil", func() {
			So(trophy.TotalStars(nil), ShouldEqual, 0)
			So(trophy.TotalStars([]github.Repository{}), ShouldEqual, 0)
		})

		Convey("When a count is negative it does not reduce the total", func() {
			So(trophy.TotalStars(starsRepos(5, -3, 2)), ShouldEqual, 7)
		})
	})
}

func TestPopularRepo(t *testing.T) {
	Convey("Given repository lists", t, func() {
		Convey("When all repositories have zero stars", func() {
			_, ok := trophy.PopularRepo(starsRepos(0, 0, 0))
			So(ok, ShouldBeFalse)
		})

		Convey("When the list is empty", func() {
			_, ok := trophy.PopularRepo(nil)
			So(ok, ShouldBeFalse)
		})

		Convey("When one repository strictly dominates", func() {
			repos := []github.Repository{
				{Name: "small", StargazersCount: 2},
				{Name: "big", StargazersCount: 9},
				{Name: "mid", StargazersCount: 5},
			}
			top, ok := trophy.PopularRepo(repos)
			So(ok, ShouldBeTrue)
			So(top.Name, ShouldEqual, "big")
		})

		Convey("When two repositories tie, the first occurrence wins", func() {
			repos := []github.Repository{
				{Name: "first", StargazersCount: 7},
				{Name: "second", StargazersCount: 7},
			}
			top, ok := trophy.PopularRepo(repos)
			So(ok, ShouldBeTrue)
			So(top.Name, ShouldEqual, "first")
		})
	})
}

func TestEngagementBands(t *testing.T) {
	Convey("Given engagement scores at band boundaries", t, func() {
		cases := []struct {
			pushes int
			label  string
			score  int
		}{
			{15, "Low", 15},
			{16, "Medium", 16},
			{40, "Medium", 40},
			{41, "High", 41},
		}
		for _, c := range cases {
			score, label := trophy.Engagement(pushEvents(c.pushes))
			So(score, ShouldEqual, c.score)
			So(label, ShouldEqual, c.label)
		}

		Convey("When pull requests contribute triple weight", func() {
			events := append(pushEvents(2), prEvents(5)...)
			score, label := trophy.Engagement(events)
			So(score, ShouldEqual, 17)
			So(label, ShouldEqual, "Medium")
		})

		Convey("When the event list is nil", func() {
			score, label := trophy.Engagement(nil)
			So(score, ShouldEqual, 0)
			So(label, ShouldEqual, "Low")
		})
	})
}

func TestStarCollectorBands(t *testing.T) {
	Convey("Given star totals at band boundaries", t, func() {
		now := time.Now()
		cases := []struct {
			stars int
			level string
		}{
			{9, "Level 0"},
			{10, "Level 1"},
			{49, "Level 1"},
			{50, "Level 2"},
			{99, "Level 2"},
			{100, "Level 3"},
		}
		for _, c := range cases {
			trophies := trophy.Derive(nil, starsRepos(c.stars), nil, now)
			So(trophies[8].Title, ShouldEqual, trophy.TitleStarCollector)
			So(trophies[8].Value, ShouldEqual, c.level)
		}
	})
}

func TestBandRarity(t *testing.T) {
	Convey("Given magnitudes at rarity boundaries", t, func() {
		So(trophy.BandRarity(0), ShouldEqual, trophy.RarityCommon)
		So(trophy.BandRarity(9), ShouldEqual, trophy.RarityCommon)
		So(trophy.BandRarity(10), ShouldEqual, trophy.RarityUncommon)
		So(trophy.BandRarity(49), ShouldEqual, trophy.RarityUncommon)
		So(trophy.BandRarity(50), ShouldEqual, trophy.RarityRare)
		So(trophy.BandRarity(99), ShouldEqual, trophy.RarityRare)
		So(trophy.BandRarity(100), ShouldEqual, trophy.RarityEpic)
		So(trophy.BandRarity(299), ShouldEqual, trophy.RarityEpic)
		So(trophy.BandRarity(300), ShouldEqual, trophy.RarityLegendary)

		Convey("And the display names are stable", func() {
			So(trophy.RarityLegendary.String(), ShouldEqual, "Legendary")
			So(trophy.RarityCommon.String(), ShouldEqual, "Common")
			So(trophy.RarityNone.String(), ShouldEqual, "")
		})
	})
}

func TestFilterTitles(t *testing.T) {
	Convey("Given a derived trophy sequence", t, func() {
		now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		profile := &github.Profile{Followers: intp(5), PublicRepos: intp(2)}
		full := trophy.Derive(profile, starsRepos(3, 4), pushEvents(3), now)

		Convey("When hiding a subset of titles case-insensitively", func() {
			filtered := trophy.FilterTitles(full, []string{"STARS", "popular repo"})

			Convey("Then the hidden facts are gone", func() {
				for _, tr := range filtered {
					So(tr.Title, ShouldNotEqual, trophy.TitleStars)
					So(tr.Title, ShouldNotEqual, trophy.TitlePopularRepo)
				}
				So(len(filtered), ShouldEqual, len(full)-2)
			})

			Convey("And the remaining facts form an order-preserving subsequence with unchanged values", func() {
				i := 0
				for _, orig := range full {
					if i < len(filtered) && filtered[i].Title == orig.Title {
						So(filtered[i], ShouldResemble, orig)
						i++
					}
				}
				So(i, ShouldEqual, len(filtered))
			})
		})

		Convey("When the hide list is empty", func() {
			So(trophy.FilterTitles(full, nil), ShouldResemble, full)
		})

		Convey("When the hide list names unknown titles", func() {
			So(trophy.FilterTitles(full, []string{"Nonexistent"}), ShouldResemble, full)
		})

		Convey("When hide entries carry whitespace", func() {
			filtered := trophy.FilterTitles(full, []string{" followers "})
			So(len(filtered), ShouldEqual, len(full)-1)
			So(filtered[0].Title, ShouldEqual, trophy.TitleStars)
		})
	})
}
