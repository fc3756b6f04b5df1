package app

import (
	"fmt"
	"os"
	"path"

	"github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Context describes the environment the daemon runs in.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the service is running locally.
	EnvLocal = "local"

	// EnvDevelopment indicates that the service is running in a development environment.
	EnvDevelopment = "development"

	// Environment variables
	_envMtalspEnvironment = "MTALSP_ENVIRONMENT"

	_configKeyLogging = "logging"
)

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envMtalspEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.MtaFS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	cfg := p.Cfg
	if p.Env.RuntimeEnvironment == EnvDevelopment {
		var err error
		if cfg, err = developmentOverrides(cfg); err != nil {
			return nil, fmt.Errorf("applying development overrides: %w", err)
		}
	}

	combined, err := ensureLogFolder(cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %w", err)
	}

	return combined, nil
}

// developmentOverrides switches logging to verbose console output.
func developmentOverrides(cfg config.Provider) (config.Provider, error) {
	overrides, err := config.NewStaticProvider(map[string]interface{}{
		_configKeyLogging: map[string]interface{}{
			"level":       "debug",
			"development": true,
			"encoding":    "console",
		},
	})
	if err != nil {
		return nil, err
	}
	return config.NewProviderGroup(cfg.Name(), cfg, overrides)
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, fs fs.MtaFS) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get(_configKeyLogging).Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %w", err)
	}

	for _, outputPath := range c.OutputPaths {
		if outputPath == "stdout" || outputPath == "stderr" {
			continue
		}
		if err := fs.MkdirAll(path.Dir(outputPath)); err != nil {
			return nil, fmt.Errorf("creating logging directory: %w", err)
		}
	}

	return cfg, nil
}
