package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	appcmd "shopfloor/cmd"
)

type commandContext struct {
	configFlag string
	driverFlag string
	jsonOutput bool

	rootOnce sync.Once
	root     *appcmd.CompositionRoot
	rootErr  error
	owned    bool
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// withRoot reuses an already wired composition root, e.g. a memory store
// shared by several invocations.
func withRoot(root *appcmd.CompositionRoot) *commandContext {
	c := &commandContext{root: root}
	c.rootOnce.Do(func() {})
	return c
}

func (c *commandContext) ensureRoot(ctx context.Context) (*appcmd.CompositionRoot, error) {
	c.rootOnce.Do(func() {
		configFile := strings.TrimSpace(c.configFlag)
		if configFile == "" {
			configFile = os.Getenv("CONFIG_FILE")
		}
		lookup := os.LookupEnv
		if driver := strings.TrimSpace(c.driverFlag); driver != "" {
			lookup = func(key string) (string, bool) {
				if key == "STORAGE_DRIVER" {
					return driver, true
				}
				return os.LookupEnv(key)
			}
		}

		cfg, err := appcmd.LoadConfigFrom(configFile, ".env", lookup)
		if err != nil {
			c.rootErr = err
			return
		}
		// Only warnings reach the terminal; command output goes to stdout.
		cfg.LogLevel = slog.LevelWarn
		logger := appcmd.NewLogger(cfg, os.Stderr)

		c.root, c.rootErr = appcmd.NewCompositionRoot(ctx, cfg, logger)
		c.owned = c.rootErr == nil
	})
	return c.root, c.rootErr
}

// close releases a root built by ensureRoot. Injected roots stay open.
func (c *commandContext) close() error {
	if !c.owned {
		return nil
	}
	return c.root.Close()
}
