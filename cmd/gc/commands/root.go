package commands

import (
	"context"
	"fmt"
	"os"

	"gocaching/lib/configutil"
	"gocaching/lib/geocaching"
	"gocaching/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gc",
	Short: "gc is a CLI for inspecting and logging caches.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
	BaseUrl  string `json:"base_url"`
}

// newSession builds an authenticated session from config.json5. Caches
// can be read anonymously, so missing credentials are not fatal.
func newSession(ctx context.Context) *geocaching.Session {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	s, err := geocaching.NewSession(ctx, geocaching.SessionOptions{
		BaseUrl: cfg.BaseUrl,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize session", err)
	}
	if cfg.Username == "" {
		return s
	}

	if err := s.Login(ctx, cfg.Username, cfg.Password); err != nil {
		serviceutil.Fatal("failed to login", err)
	}
	return s
}
