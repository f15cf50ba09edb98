package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/scode/shastity/pkg/storage"
	"github.com/scode/shastity/pkg/storage/gcs"
	"github.com/scode/shastity/pkg/storage/localfs"
	"github.com/scode/shastity/pkg/storage/memory"
	"github.com/scode/shastity/pkg/storage/sthree"
)

// StoreConfig resolves one named store: which backend serves it and
// where in that backend its keys live.
type StoreConfig struct {
	Backend    string `json:"backend" yaml:"backend"`       // memory, localfs, s3 or gcs
	Bucket     string `json:"bucket" yaml:"bucket"`         // bucket name, or root directory for localfs
	Prefix     string `json:"prefix" yaml:"prefix"`         // key-space path prefix inside the bucket
	Credential string `json:"credential" yaml:"credential"` // credentials file for this store
	Region     string `json:"region" yaml:"region"`         // s3 only
	Endpoint   string `json:"endpoint" yaml:"endpoint"`     // s3 only, for s3-compatible services
}

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Credential string                 `json:"credential" yaml:"credential"` // Credentials to use for GCS
	Stores     map[string]StoreConfig `json:"stores" yaml:"stores"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// store constructs the named store's backend and wraps it with
// tracing and logging.
func (c *CLIConfig) store(ctx context.Context, name string, logger *zap.Logger) (storage.Store, error) {
	cfg, ok := c.Stores[name]
	if !ok {
		return nil, fmt.Errorf("store %q is not configured", name)
	}

	var (
		s   storage.Store
		err error
	)
	switch cfg.Backend {
	case "memory":
		s = memory.New()
	case "localfs", "":
		root := cfg.Bucket
		if root == "" {
			root = filepath.Join(".shastity", name)
		}
		if err = os.MkdirAll(root, 0755); err != nil {
			return nil, err
		}
		s = localfs.New(afero.NewBasePathFs(afero.NewOsFs(), root))
	case "s3":
		awsConfig := aws.NewConfig()
		if cfg.Region != "" {
			awsConfig = awsConfig.WithRegion(cfg.Region)
		}
		if cfg.Endpoint != "" {
			awsConfig = awsConfig.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
		}
		if cfg.Credential != "" {
			awsConfig = awsConfig.WithCredentials(credentials.NewSharedCredentials(cfg.Credential, "default"))
		}
		s = sthree.New(
			sthree.Bucket(cfg.Bucket),
			sthree.Prefix(cfg.Prefix),
			sthree.AWSConfig(awsConfig),
		)
	case "gcs":
		if cfg.Credential != "" {
			_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cfg.Credential)
		}
		s, err = gcs.New(ctx, cfg.Bucket, gcs.Prefix(cfg.Prefix))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("store %q has unknown backend %q", name, cfg.Backend)
	}

	return storage.Instrument(opentracing.GlobalTracer(), logger, s), nil
}
