package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trellisforge/trellis-build/trbuild"
	"sigs.k8s.io/yaml"
)

// loadConfig reads a Trellis build configuration file. The file may be
// written in YAML or JSON.
func loadConfig(path string) (cfg trbuild.Config, err error) {
	if path == "" {
		return cfg, errors.New("missing configuration file path")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return cfg, errors.New("the provided configuration file path must end in .yaml, .yml or .json")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("the configuration file \"%s\" could not be parsed: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("the configuration file \"%s\" is invalid: %w", path, err)
	}
	cfg.Timing = cfg.Timing.WithDefaults()
	return cfg, nil
}

// loadToken returns the access token to present to the provisioning
// service. A token supplied on the command line takes precedence over the
// configured token file. An empty token is permitted.
func loadToken(token, tokenFile string) (string, error) {
	if token != "" {
		return strings.TrimSpace(token), nil
	}
	if tokenFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		return "", fmt.Errorf("the token file \"%s\" could not be read: %w", tokenFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}
