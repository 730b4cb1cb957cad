// Package trophy implements the pure derivation of badge facts from raw
// GitHub data. Derivation is deterministic and total: missing or malformed
// inputs degrade to zero-valued facts, never to an error.
package trophy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uplinkhq/trophy/internal/domain/github"
)

// Rarity is a discrete magnitude band used for visual emphasis.
type Rarity int

// Rarity bands, ordered by magnitude.
const (
	RarityNone Rarity = iota // fact carries no rarity
	RarityCommon
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

// Rarity band thresholds on the underlying magnitude.
const (
	uncommonThreshold  = 10
	rareThreshold      = 50
	epicThreshold      = 100
	legendaryThreshold = 300
)

// String returns the display name of the rarity band.
func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityUncommon:
		return "Uncommon"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return ""
	}
}

// BandRarity maps a non-negative magnitude to its rarity band.
func BandRarity(magnitude int) Rarity {
	switch {
	case magnitude >= legendaryThreshold:
		return RarityLegendary
	case magnitude >= epicThreshold:
		return RarityEpic
	case magnitude >= rareThreshold:
		return RarityRare
	case magnitude >= uncommonThreshold:
		return RarityUncommon
	default:
		return RarityCommon
	}
}

// Trophy is a single named, valued, optionally ranked derived fact.
type Trophy struct {
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Value  string `json:"value"`
	Rarity Rarity `json:"rarity,omitempty"`
}

// Fact titles, in derivation order.
const (
	TitleFollowers       = "Followers"
	TitleStars           = "Stars"
	TitleRepos           = "Repos"
	TitleAccountAge      = "Account Age"
	TitleContributions   = "Contributions"
	TitlePopularRepo     = "Popular Repo"
	TitleEngagementScore = "Engagement Score"
	TitleActiveDeveloper = "Active Developer"
	TitleStarCollector   = "Star Collector"
	TitleOpenSourceHero  = "Open Source Hero"
)

// Titles lists every fact title in derivation order. The hide filter matches
// against this closed set.
var Titles = []string{
	TitleFollowers,
	TitleStars,
	TitleRepos,
	TitleAccountAge,
	TitleContributions,
	TitlePopularRepo,
	TitleEngagementScore,
	TitleActiveDeveloper,
	TitleStarCollector,
	TitleOpenSourceHero,
}

// noneSentinel is reported when no repository qualifies as popular.
const noneSentinel = "None"

// Engagement scoring weights and band boundaries.
const (
	pushWeight          = 1
	pullRequestWeight   = 3
	engagementHighAbove = 40
	engagementMedAbove  = 15
	activeAboveContribs = 20
)

// Star Collector level boundaries.
const (
	starLevel1 = 10
	starLevel2 = 50
	starLevel3 = 100
)

// Derive maps raw fetched data to the fixed ordered trophy sequence.
// now anchors the account-age calculation so results stay reproducible.
func Derive(profile *github.Profile, repos []github.Repository, events []github.Event, now time.Time) []Trophy {
	followers := intOrZero(profileFollowers(profile))
	stars := TotalStars(repos)
	repoCount := intOrZero(profilePublicRepos(profile))
	age := accountAge(profile, now)
	contributions := Contributions(events)
	score, label := Engagement(events)

	return []Trophy{
		{Title: TitleFollowers, Icon: "👤", Value: strconv.Itoa(followers), Rarity: BandRarity(followers)},
		{Title: TitleStars, Icon: "⭐", Value: strconv.Itoa(stars), Rarity: BandRarity(stars)},
		{Title: TitleRepos, Icon: "📦", Value: strconv.Itoa(repoCount), Rarity: BandRarity(repoCount)},
		{Title: TitleAccountAge, Icon: "📅", Value: fmt.Sprintf("%d years", age)},
		{Title: TitleContributions, Icon: "🔧", Value: strconv.Itoa(contributions), Rarity: BandRarity(contributions)},
		{Title: TitlePopularRepo, Icon: "📈", Value: popularRepoValue(repos)},
		{Title: TitleEngagementScore, Icon: "📊", Value: fmt.Sprintf("%s (%d)", label, score)},
		{Title: TitleActiveDeveloper, Icon: "🚀", Value: yesNo(contributions > activeAboveContribs)},
		{Title: TitleStarCollector, Icon: "🌟", Value: starCollectorLevel(stars)},
		{Title: TitleOpenSourceHero, Icon: "💚", Value: yesNo(hasFork(repos))},
	}
}

// TotalStars sums stargazer counts over the repository list; nil yields 0.
// Negative upstream counts are clamped to keep the total non-negative.
func TotalStars(repos []github.Repository) int {
	total := 0
	for _, r := range repos {
		if r.StargazersCount > 0 {
			total += r.StargazersCount
		}
	}
	return total
}

// Contributions counts push and pull-request events; nil yields 0.
func Contributions(events []github.Event) int {
	count := 0
	for _, e := range events {
		if e.Type == github.EventPush || e.Type == github.EventPullRequest {
			count++
		}
	}
	return count
}

// Engagement computes the weighted activity score and its band label.
// Pushes weigh 1, pull requests weigh 3.
func Engagement(events []github.Event) (int, string) {
	score := 0
	for _, e := range events {
		switch e.Type {
		case github.EventPush:
			score += pushWeight
		case github.EventPullRequest:
			score += pullRequestWeight
		}
	}
	switch {
	case score > engagementHighAbove:
		return score, "High"
	case score > engagementMedAbove:
		return score, "Medium"
	default:
		return score, "Low"
	}
}

// PopularRepo returns the repository with the strictly highest star count,
// first occurrence winning ties. ok is false when the list is empty or no
// repository has a positive count.
func PopularRepo(repos []github.Repository) (github.Repository, bool) {
	best := -1
	var top github.Repository
	for _, r := range repos {
		if r.StargazersCount > best {
			best = r.StargazersCount
			top = r
		}
	}
	if best <= 0 {
		return github.Repository{}, false
	}
	return top, true
}

// FilterTitles removes trophies whose title appears in hide, matched
// case-insensitively. Order and values of retained trophies are preserved.
func FilterTitles(trophies []Trophy, hide []string) []Trophy {
	if len(hide) == 0 {
		return trophies
	}
	hidden := make(map[string]struct{}, len(hide))
	for _, h := range hide {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hidden[h] = struct{}{}
		}
	}
	kept := make([]Trophy, 0, len(trophies))
	for _, t := range trophies {
		if _, ok := hidden[strings.ToLower(t.Title)]; !ok {
			kept = append(kept, t)
		}
	}
	return kept
}

func popularRepoValue(repos []github.Repository) string {
	top, ok := PopularRepo(repos)
	if !ok {
		return noneSentinel
	}
	return fmt.Sprintf("%s (%d★)", top.Name, top.StargazersCount)
}

func starCollectorLevel(stars int) string {
	switch {
	case stars >= starLevel3:
		return "Level 3"
	case stars >= starLevel2:
		return "Level 2"
	case stars >= starLevel1:
		return "Level 1"
	default:
		return "Level 0"
	}
}

func accountAge(profile *github.Profile, now time.Time) int {
	year, ok := profile.CreatedYear()
	if !ok {
		return 0
	}
	age := now.Year() - year
	if age < 0 {
		return 0
	}
	return age
}

func hasFork(repos []github.Repository) bool {
	for _, r := range repos {
		if r.Fork {
			return true
		}
	}
	return false
}

func profileFollowers(p *github.Profile) *int {
	if p == nil {
		return nil
	}
	return p.Followers
}

func profilePublicRepos(p *github.Profile) *int {
	if p == nil {
		return nil
	}
	return p.PublicRepos
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
