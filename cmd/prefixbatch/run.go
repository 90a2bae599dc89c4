package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lakestream-io/prefixbatch/pkg/batch"
	"github.com/lakestream-io/prefixbatch/pkg/logging"
	"github.com/lakestream-io/prefixbatch/pkg/storage"
)

// deps is the set of constructed components handed to a command action.
type deps struct {
	fx.In

	Batch  *batch.Batch
	Client storage.ObjectClient
}

// buildViper assembles configuration from the config file, environment
// (PREFIXBATCH_* variables) and command-line flags, flags winning.
func buildViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("PREFIXBATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFilePath != "" {
		v.SetConfigFile(configFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if logLevel != "" {
		v.Set("logging.level", logLevel)
	}
	if region != "" {
		v.Set("storage.region", region)
	}
	if endpoint != "" {
		v.Set("storage.endpoint", endpoint)
	}
	if pathStyle {
		v.Set("storage.force_path_style", true)
	}

	return v, nil
}

// runAction builds the fx application and runs one command action
// against the constructed Batch and client.
func runAction(action func(ctx context.Context, d deps) error) error {
	v, err := buildViper()
	if err != nil {
		return err
	}

	var actionErr error
	app := fx.New(
		fx.Supply(v),
		logging.Module,
		storage.Module,
		batch.Module,
		fx.Invoke(func(lc fx.Lifecycle, d deps, l *zap.Logger, sh fx.Shutdowner) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						actionErr = action(context.Background(), d)
						if actionErr != nil {
							l.Error("command failed", zap.Error(actionErr))
						}
						if err := sh.Shutdown(); err != nil {
							l.Error("failed to shutdown", zap.Error(err))
						}
					}()
					return nil
				},
				OnStop: func(context.Context) error { return nil },
			})
		}),
		fx.NopLogger,
	)

	app.Run()
	if err := app.Err(); err != nil {
		return err
	}
	if actionErr != nil {
		// Already logged; exit nonzero without double-printing.
		os.Exit(1)
	}
	return nil
}
