package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ifyoulike/internal/config"
	"ifyoulike/internal/extract"
	"ifyoulike/internal/extractcache"
	"ifyoulike/internal/logging"
	"ifyoulike/internal/services"
	"ifyoulike/internal/services/llm"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "setup", "config", "load configuration", err)
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "setup", "config", "prepare directories", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "setup", "logging", "build logger", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// newExtractor builds the extractor for the configured provider, layering
// the completion cache when enabled. The returned closer releases the cache.
func (c *commandContext) newExtractor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*extract.Extractor, func(), error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, nil, err
	}
	provider, err := llm.New(ctx, cfg.GetLLM())
	if err != nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "setup", "llm", "build client", err)
	}

	var completer extract.Completer = provider
	closer := func() {}
	if cfg.Cache.Enabled {
		store, err := extractcache.Open(ctx, cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		cached := extractcache.Wrap(provider, store, logger)
		completer = cached
		closer = func() {
			hits, misses := cached.Stats()
			logger.Debug("completion cache closed",
				logging.Int("hits", hits),
				logging.Int("misses", misses),
			)
			if err := store.Close(); err != nil {
				logging.WarnWithContext(logger, "completion cache close failed", "cache_close_failed",
					logging.Error(err),
				)
			}
		}
	}
	return extract.New(completer, extract.WithLogger(logger)), closer, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// terminalWriter returns w when it is an interactive terminal.
func terminalWriter(w io.Writer) io.Writer {
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return f
	}
	return nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "(unset)"
	case len(value) <= 8:
		return "****"
	default:
		return fmt.Sprintf("%s…%s", value[:4], value[len(value)-2:])
	}
}
