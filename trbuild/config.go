package trbuild

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Default timing values.
const (
	DefaultSettleDelay = 100 * time.Millisecond
	DefaultResetDelay  = 3 * time.Second
)

// Config is the configuration of a Trellis build client.
type Config struct {
	Server ServerConfig `json:"server"`
	Timing Timing       `json:"timing,omitzero"`
}

// Validate returns an error if the configuration is invalid.
func (cfg Config) Validate() error {
	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	if err := cfg.Timing.Validate(); err != nil {
		return fmt.Errorf("invalid timing configuration: %w", err)
	}
	return nil
}

// ServerConfig describes how to reach the provisioning service.
type ServerConfig struct {
	URL               string   `json:"url"`
	TokenFile         string   `json:"token-file,omitempty"`
	Timeout           Duration `json:"timeout,omitempty"`
	RequestsPerSecond float64  `json:"requests-per-second,omitempty"`
	Burst             int      `json:"burst,omitempty"`
}

// Validate returns an error if the server configuration is invalid.
func (cfg ServerConfig) Validate() error {
	if cfg.URL == "" {
		return errors.New("a server url is missing")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("the server url \"%s\" is not valid: %w", cfg.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("the server url \"%s\" must use http or https", cfg.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("the server url \"%s\" does not include a host", cfg.URL)
	}
	if cfg.Timeout < 0 {
		return errors.New("the server timeout must not be negative")
	}
	if cfg.RequestsPerSecond < 0 {
		return errors.New("the request rate must not be negative")
	}
	if cfg.Burst < 0 {
		return errors.New("the request burst must not be negative")
	}
	return nil
}

// Timing holds the fixed delays applied by the build engine.
//
// Both delays give the provisioning service time to settle between
// dependent calls. Zero values select the defaults.
type Timing struct {
	SettleDelay Duration `json:"settle-delay,omitempty"`
	ResetDelay  Duration `json:"reset-delay,omitempty"`
}

// Validate returns an error if the timing configuration is invalid.
func (t Timing) Validate() error {
	if t.SettleDelay < 0 {
		return errors.New("the settle delay must not be negative")
	}
	if t.ResetDelay < 0 {
		return errors.New("the reset delay must not be negative")
	}
	return nil
}

// WithDefaults returns t with zero values replaced by defaults.
func (t Timing) WithDefaults() Timing {
	if t.SettleDelay == 0 {
		t.SettleDelay = Duration(DefaultSettleDelay)
	}
	if t.ResetDelay == 0 {
		t.ResetDelay = Duration(DefaultResetDelay)
	}
	return t
}
