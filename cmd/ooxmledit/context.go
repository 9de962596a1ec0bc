package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ukaji3/ooxmledit-go/internal/config"
	"github.com/ukaji3/ooxmledit-go/internal/logging"
	"github.com/ukaji3/ooxmledit-go/internal/store"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit"
)

type commandContext struct {
	configPath string
	logLevel   string
	logFormat  string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger
}

// ensureConfig loads the configuration once, applies the log flags and
// builds the logger.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevel != "" {
			cfg.Log.Level = c.logLevel
		}
		if c.logFormat != "" {
			cfg.Log.Format = c.logFormat
		}
		logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

func (c *commandContext) parseOptions() ooxmledit.Options {
	opts := ooxmledit.DefaultOptions()
	opts.Logger = c.log()
	if c.config != nil {
		styles := c.config.Parse.ResolveStyles
		lists := c.config.Parse.ResolveListSources
		opts.ResolveStyles = &styles
		opts.ResolveListSources = &lists
	}
	return opts
}

func (c *commandContext) openStore(ctx context.Context) (*store.Store, error) {
	path := config.Default().Store.Path
	if c.config != nil {
		path = c.config.Store.Path
	}
	s, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	c.log().Debug("opened session store", "path", s.Path())
	return s, nil
}
