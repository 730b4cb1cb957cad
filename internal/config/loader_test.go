package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/uplinkhq/trophy/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 60)
				convey.So(cfg.CacheMaxEntries, convey.ShouldEqual, 10_000)
				convey.So(cfg.GitHubBaseURL, convey.ShouldEqual, "https://api.github.com")
				convey.So(cfg.ReposPerPage, convey.ShouldEqual, 100)
				convey.So(cfg.DefaultColumns, convey.ShouldEqual, 3)
				convey.So(cfg.DefaultTheme, convey.ShouldEqual, "uplink")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TROPHY_ADDR", ":8080")
			_ = os.Setenv("TROPHY_CACHE_TTL_SECONDS", "30")
			_ = os.Setenv("TROPHY_GITHUB_BASE_URL", "http://localhost:8999")
			_ = os.Setenv("TROPHY_DEFAULT_COLUMNS", "4")
			_ = os.Setenv("TROPHY_DEFAULT_THEME", "dark")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.GitHubBaseURL, convey.ShouldEqual, "http://localhost:8999")
				convey.So(cfg.DefaultColumns, convey.ShouldEqual, 4)
				convey.So(cfg.DefaultTheme, convey.ShouldEqual, "dark")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
cache_ttl_seconds: 45
cache_max_entries: 500
github_base_url: "http://example.invalid"
default_columns: 2
default_theme: "light"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TROPHY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 45)
				convey.So(cfg.CacheMaxEntries, convey.ShouldEqual, 500)
				convey.So(cfg.GitHubBaseURL, convey.ShouldEqual, "http://example.invalid")
				convey.So(cfg.DefaultColumns, convey.ShouldEqual, 2)
				convey.So(cfg.DefaultTheme, convey.ShouldEqual, "light")
			})
		})

		convey.Convey("When env vars override the YAML file", func() {
			yamlContent := `
addr: ":9090"
cache_ttl_seconds: 45
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TROPHY_CONFIG", tmpFile)
			_ = os.Setenv("TROPHY_CACHE_TTL_SECONDS", "90")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should win over file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 90)
			})
		})

		convey.Convey("When the config is invalid", func() {
			convey.Convey("And addr is emptied", func() {
				_ = os.Setenv("TROPHY_ADDR", "")
				defer clearConfigEnvVars()

				// An empty env var still loads as empty string and must be rejected.
				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldEqual, config.ErrEmptyAddr)
			})

			convey.Convey("And the TTL is non-positive", func() {
				_ = os.Setenv("TROPHY_CACHE_TTL_SECONDS", "0")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldEqual, config.ErrInvalidTTL)
			})

			convey.Convey("And default_columns exceeds max_columns", func() {
				_ = os.Setenv("TROPHY_DEFAULT_COLUMNS", "9")
				_ = os.Setenv("TROPHY_MAX_COLUMNS", "6")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldEqual, config.ErrInvalidColumns)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"TROPHY_CONFIG",
		"TROPHY_ADDR",
		"TROPHY_LOG_LEVEL",
		"TROPHY_CACHE_TTL_SECONDS",
		"TROPHY_CACHE_MAX_ENTRIES",
		"TROPHY_CACHE_CLEANUP_SECONDS",
		"TROPHY_GITHUB_BASE_URL",
		"TROPHY_GITHUB_TOKEN",
		"TROPHY_FETCH_TIMEOUT_SECONDS",
		"TROPHY_REPOS_PER_PAGE",
		"TROPHY_DEFAULT_COLUMNS",
		"TROPHY_MAX_COLUMNS",
		"TROPHY_DEFAULT_THEME",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "trophy-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	if err := f.Close(); err != nil {
		panic(err)
	}
	return f.Name()
}
