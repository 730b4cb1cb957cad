// Package github contains the raw upstream models consumed by derivation.
//
// Upstream payloads are loosely typed: fields may be absent, null, or an error
// object may stand in for a list. Decoding here is tolerant; shape problems
// degrade to zero values instead of failing, so derivation stays total.
package github

import (
	"encoding/json"
	"time"
)

// notFoundMessage is the canonical body GitHub returns for unknown users.
const notFoundMessage = "Not Found"

// Profile is the subset of /users/{username} the service consumes.
// Pointer fields distinguish "absent" from a genuine zero.
type Profile struct {
	Login       string `json:"login"`
	Followers   *int   `json:"followers"`
	PublicRepos *int   `json:"public_repos"`
	PublicGists *int   `json:"public_gists"`
	Type        string `json:"type"` // "User" or "Organization"
	CreatedAt   string `json:"created_at"`

	// Message is set on error-shaped payloads, e.g. {"message": "Not Found"}.
	Message string `json:"message"`
}

// NotFound reports whether the payload is GitHub's unknown-user signal.
func (p *Profile) NotFound() bool {
	return p != nil && p.Message == notFoundMessage
}

// CreatedYear parses the account creation year. Returns zero and false when
// the timestamp is absent or malformed.
func (p *Profile) CreatedYear() (int, bool) {
	if p == nil || p.CreatedAt == "" {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

// Repository is the subset of a /users/{username}/repos entry the service consumes.
type Repository struct {
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
	Fork            bool   `json:"fork"`
}

// Event is the subset of a /users/{username}/events entry the service consumes.
type Event struct {
	Type string `json:"type"`
}

// Activity event types that count as contributions.
const (
	EventPush        = "PushEvent"
	EventPullRequest = "PullRequestEvent"
)

// DecodeProfile unmarshals a profile document. Unlike the collection decoders
// it reports malformed JSON, because the profile is the authoritative signal
// for user existence.
func DecodeProfile(raw []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeRepositories unmarshals a repository listing. Anything that is not a
// JSON array (error objects, rate-limit payloads, null) yields nil.
func DecodeRepositories(raw []byte) []Repository {
	var repos []Repository
	if err := json.Unmarshal(raw, &repos); err != nil {
		return nil
	}
	return repos
}

// DecodeEvents unmarshals an event listing. Anything that is not a JSON array
// yields nil.
func DecodeEvents(raw []byte) []Event {
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil
	}
	return events
}
