package storage

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/lakestream-io/prefixbatch/pkg/logging"
)

// ConfigKey is the root configuration key (in Viper) for this module.
var ConfigKey = "storage"

// ProvideS3Config extracts S3 client configuration from Viper.
func ProvideS3Config(v *viper.Viper) (*S3Config, error) {
	cfg := DefaultS3Config()
	if err := v.UnmarshalKey(ConfigKey, cfg); err != nil {
		return nil, fmt.Errorf("error reading storage configuration: %w", err)
	}
	return cfg, nil
}

// ProvideObjectClient creates the S3-backed object client.
func ProvideObjectClient(cfg *S3Config, logger logging.Interface) (ObjectClient, error) {
	client, err := NewS3Client(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create object client: %w", err)
	}

	logger.WithField("region", cfg.Region).
		WithField("endpoint", cfg.Endpoint).
		Info("Object store client initialized")

	return client, nil
}

// Module provides the object client as an fx module.
var Module = fx.Provide(
	ProvideS3Config,
	ProvideObjectClient,
)
