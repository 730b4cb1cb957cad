package github_test

import (
	"testing"

	"github.com/uplinkhq/trophy/internal/domain/github"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecodeProfile(t *testing.T) {
	Convey("Given profile payloads", t, func() {
		Convey("When the payload is complete", func() {
			p, err := github.DecodeProfile([]byte(`{
				"login": "octocat",
				"followers": 7,
				"public_repos": 2,
				"type": "User",
				"created_at": "2015-03-02T10:00:00Z"
			}`))

			So(err, ShouldBeNil)
			So(p.Login, ShouldEqual, "octocat")
			So(*p.Followers, ShouldEqual, 7)
			So(p.NotFound(), ShouldBeFalse)

			year, ok := p.CreatedYear()
			So(ok, ShouldBeTrue)
			So(year, ShouldEqual, 2015)
		})

		Convey("When fields are absent or null", func() {
			p, err := github.DecodeProfile([]byte(`{"login": "bare", "followers": null}`))

			So(err, ShouldBeNil)
			So(p.Followers, ShouldBeNil)
			So(p.PublicRepos, ShouldBeNil)

			_, ok := p.CreatedYear()
			So(ok, ShouldBeFalse)
		})

		Convey("When the payload is GitHub's not-found signal", func() {
			p, err := github.DecodeProfile([]byte(`{"message": "Not Found", "documentation_url": "https://docs.github.com"}`))

			So(err, ShouldBeNil)
			So(p.NotFound(), ShouldBeTrue)
		})

		Convey("When the payload is not JSON", func() {
			_, err := github.DecodeProfile([]byte(`<html>nope</html>`))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDecodeCollections(t *testing.T) {
	Convey("Given repository payloads", t, func() {
		Convey("When the payload is a proper list", func() {
			repos := github.DecodeRepositories([]byte(`[{"name": "a", "stargazers_count": 3, "fork": true}]`))
			So(len(repos), ShouldEqual, 1)
			So(repos[0].Name, ShouldEqual, "a")
			So(repos[0].StargazersCount, ShouldEqual, 3)
			So(repos[0].Fork, ShouldBeTrue)
		})

		Convey("When the payload is an error object instead of a list", func() {
			So(github.DecodeRepositories([]byte(`{"message": "API rate limit exceeded"}`)), ShouldBeNil)
		})

		Convey("When the payload is null or garbage", func() {
			So(github.DecodeRepositories([]byte(`null`)), ShouldBeNil)
			So(github.DecodeRepositories([]byte(`not json`)), ShouldBeNil)
		})
	})

	Convey("Given event payloads", t, func() {
		Convey("When the payload is a proper list", func() {
			events := github.DecodeEvents([]byte(`[{"type": "PushEvent"}, {"type": "ForkEvent"}]`))
			So(len(events), ShouldEqual, 2)
			So(events[0].Type, ShouldEqual, github.EventPush)
		})

		Convey("When the payload is not a list", func() {
			So(github.DecodeEvents([]byte(`{"message": "oops"}`)), ShouldBeNil)
		})
	})
}
