package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fontmux/internal/config"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// configCopy returns a copy of the loaded config that a command may adjust
// with its flags.
func (c *commandContext) configCopy() (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	dup := *cfg
	dup.Fonts.Dirs = append([]string(nil), cfg.Fonts.Dirs...)
	dup.Fonts.Ignore = append([]string(nil), cfg.Fonts.Ignore...)
	dup.Fonts.SmartSuffixes = append([]string(nil), cfg.Fonts.SmartSuffixes...)
	dup.Subtitles.Extensions = append([]string(nil), cfg.Subtitles.Extensions...)
	return &dup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
