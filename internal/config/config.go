// Package config loads container configuration from a HuJSON file: the
// container path, cluster size, and KDF cost parameters.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/denstore/internal/kdf"
)

var (
	errConfigFileRead     = errors.New("cannot read config file")
	errConfigInvalid      = errors.New("invalid config file")
	errContainerPathEmpty = errors.New("container_path cannot be empty")
)

// KDFParams mirrors kdf.Params for JSON (de)serialization.
type KDFParams struct {
	N int `json:"n,omitempty"`
	R int `json:"r,omitempty"`
	P int `json:"p,omitempty"`
}

// Config holds the settings needed to open or create a container.
type Config struct {
	ContainerPath string    `json:"container_path"` //nolint:tagliatelle // snake_case for config file
	ClusterSize   int       `json:"cluster_size,omitempty"`
	KDF           KDFParams `json:"kdf,omitempty"`
}

// DefaultConfig returns the default configuration. ClusterSize of 0 means
// "use cryptoblob.DefaultClusterSize". vault.Open uses ClusterSize both to
// create a new container and to index an existing one; it is not stored in
// or checked against the container file.
func DefaultConfig() Config {
	return Config{
		ContainerPath: "vault.dnk",
		KDF: KDFParams{
			N: kdf.DefaultParams.N,
			R: kdf.DefaultParams.R,
			P: kdf.DefaultParams.P,
		},
	}
}

// KDFParams returns the cfg's KDF cost parameters as kdf.Params, falling
// back to kdf.DefaultParams for any zero field.
func (cfg Config) KDFParams() kdf.Params {
	p := kdf.DefaultParams

	if cfg.KDF.N != 0 {
		p.N = cfg.KDF.N
	}

	if cfg.KDF.R != 0 {
		p.R = cfg.KDF.R
	}

	if cfg.KDF.P != 0 {
		p.P = cfg.KDF.P
	}

	return p
}

// LoadConfig reads and parses a HuJSON config file at path, applying
// DefaultConfig for any field the file omits. If path does not exist,
// LoadConfig returns DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled, same as the teacher's config loader
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return Config{}, fmt.Errorf("%w: %s: %w", errConfigFileRead, path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.ContainerPath == "" {
		return errContainerPathEmpty
	}

	return nil
}

// Format returns cfg as indented JSON, for diagnostics.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
