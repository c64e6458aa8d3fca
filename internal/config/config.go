// Package config manages gowsc daemon configuration using koanf/v2.
//
// Supports YAML files and environment variable overrides for the daemon
// sections. Enrollee settings live under the WSC section with the option
// names of the original keyfile format and are read from the file only;
// they include secret material that has no business in the environment.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dantte-lp/gowsc/internal/wsc"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete gowsc configuration.
type Config struct {
	Socket  SocketConfig  `koanf:"socket"`
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
	WSC     WSCConfig     `koanf:"WSC"`
}

// SocketConfig holds the EAP payload transport configuration.
type SocketConfig struct {
	// Path is the unix datagram socket the daemon serves EAP-WSC
	// payload units on.
	Path string `koanf:"path"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint.
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint.
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// WSCConfig carries the Enrollee settings of the WSC section. Option
// names match the original keyfile format verbatim.
type WSCConfig struct {
	// EnrolleeMAC is the 6-byte enrollee MAC in colon notation.
	// Required; it seeds UUID-E.
	EnrolleeMAC string `koanf:"EnrolleeMAC"`

	// EnrolleeNonce is N1 as 16 hex-encoded bytes. Random if unset.
	EnrolleeNonce string `koanf:"EnrolleeNonce"`

	// PrivateKey is the DH private scalar as 192 hex-encoded bytes.
	// Random if unset.
	PrivateKey string `koanf:"PrivateKey"`

	// ConfigurationMethods is the config methods bitmask.
	ConfigurationMethods uint32 `koanf:"ConfigurationMethods"`

	// Descriptive device identity. Single space if unset.
	Manufacturer string `koanf:"Manufacturer"`
	ModelName    string `koanf:"ModelName"`
	ModelNumber  string `koanf:"ModelNumber"`
	SerialNumber string `koanf:"SerialNumber"`
	DeviceName   string `koanf:"DeviceName"`

	// PrimaryDeviceType uses the "%x-%02x%02x%02x%02x-%x" form:
	// category, OUI, OUI type, subcategory.
	PrimaryDeviceType string `koanf:"PrimaryDeviceType"`

	// RFBand is one of 1 (2.4 GHz), 2 (5 GHz), 4 (60 GHz). Required.
	RFBand uint32 `koanf:"RFBand"`

	// OSVersion stores its low 31 bits.
	OSVersion uint32 `koanf:"OSVersion"`

	// DevicePassword is a hex string of at least 8 characters.
	DevicePassword string `koanf:"DevicePassword"`

	// Secret nonces and IVs as 16 hex-encoded bytes each.
	// Random if unset.
	ESNonce1 string `koanf:"E-SNonce1"`
	ESNonce2 string `koanf:"E-SNonce2"`
	IV1      string `koanf:"IV1"`
	IV2      string `koanf:"IV2"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// defaultDevicePassword is the all-zero password used when none is
// configured, matching the push-button flow.
const defaultDevicePassword = "00000000"

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Socket: SocketConfig{
			Path: "/run/gowsc/eap.sock",
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		WSC: WSCConfig{
			ConfigurationMethods: uint32(wsc.ConfigMethodVirtualDisplayPIN),
			DevicePassword:       defaultDevicePassword,
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for gowsc configuration.
// Variables are named GOWSC_<section>_<key>, e.g., GOWSC_METRICS_ADDR.
// Only the lowercase daemon sections are reachable from the environment.
const envPrefix = "GOWSC_"

// Load reads configuration from a YAML file at path, overlays
// environment variable overrides (GOWSC_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// envKeyMapper transforms GOWSC_METRICS_ADDR -> metrics.addr.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"socket.path":              defaults.Socket.Path,
		"metrics.addr":             defaults.Metrics.Addr,
		"metrics.path":             defaults.Metrics.Path,
		"log.level":                defaults.Log.Level,
		"log.format":               defaults.Log.Format,
		"WSC.ConfigurationMethods": defaults.WSC.ConfigurationMethods,
		"WSC.DevicePassword":       defaults.WSC.DevicePassword,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Enrollee settings resolution
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrMissingEnrolleeMAC indicates the required EnrolleeMAC option
	// is absent.
	ErrMissingEnrolleeMAC = errors.New("WSC.EnrolleeMAC is required")

	// ErrInvalidEnrolleeMAC indicates EnrolleeMAC does not parse as a
	// 6-byte MAC address.
	ErrInvalidEnrolleeMAC = errors.New("WSC.EnrolleeMAC is invalid")

	// ErrMissingRFBand indicates the required RFBand option is absent
	// or not one of the defined bands.
	ErrMissingRFBand = errors.New("WSC.RFBand must be one of 1, 2, 4")
)

// EnrolleeConfig resolves the WSC section into a fully populated
// wsc.Config: hex options are decoded, unset secrets are filled with
// secure random bytes and the primary device type string is parsed.
// Mirroring the original keyfile loader, a hex option that fails to
// decode to the exact required width falls back to random.
func (w *WSCConfig) EnrolleeConfig() (wsc.Config, error) {
	var cfg wsc.Config

	if w.EnrolleeMAC == "" {
		return cfg, ErrMissingEnrolleeMAC
	}
	hw, err := net.ParseMAC(w.EnrolleeMAC)
	if err != nil || len(hw) != wsc.AddrSize {
		return cfg, fmt.Errorf("parse %q: %w", w.EnrolleeMAC, ErrInvalidEnrolleeMAC)
	}
	copy(cfg.Addr[:], hw)

	band := wsc.RFBand(w.RFBand)
	if !band.Valid() {
		return cfg, fmt.Errorf("rf band %d: %w", w.RFBand, ErrMissingRFBand)
	}
	cfg.RFBand = band

	if err := loadHexOrRandom(cfg.EnrolleeNonce[:], w.EnrolleeNonce); err != nil {
		return cfg, err
	}
	if err := loadHexOrRandom(cfg.PrivateKey[:], w.PrivateKey); err != nil {
		return cfg, err
	}
	if err := loadHexOrRandom(cfg.ESNonce1[:], w.ESNonce1); err != nil {
		return cfg, err
	}
	if err := loadHexOrRandom(cfg.ESNonce2[:], w.ESNonce2); err != nil {
		return cfg, err
	}
	if err := loadHexOrRandom(cfg.IV1[:], w.IV1); err != nil {
		return cfg, err
	}
	if err := loadHexOrRandom(cfg.IV2[:], w.IV2); err != nil {
		return cfg, err
	}

	cfg.ConfigMethods = uint16(w.ConfigurationMethods)
	cfg.Manufacturer = w.Manufacturer
	cfg.ModelName = w.ModelName
	cfg.ModelNumber = w.ModelNumber
	cfg.SerialNumber = w.SerialNumber
	cfg.DeviceName = w.DeviceName
	cfg.PrimaryDeviceType = parsePrimaryDeviceType(w.PrimaryDeviceType)
	cfg.OSVersion = w.OSVersion & 0x7fffffff

	cfg.DevicePassword = w.DevicePassword
	if cfg.DevicePassword == "" {
		cfg.DevicePassword = defaultDevicePassword
	}

	return cfg, nil
}

// loadHexOrRandom decodes a hex option into dst. An absent option or one
// that does not decode to exactly len(dst) bytes falls back to secure
// random bytes.
func loadHexOrRandom(dst []byte, value string) error {
	if value != "" {
		decoded, err := hex.DecodeString(value)
		if err == nil && len(decoded) == len(dst) {
			copy(dst, decoded)
			return nil
		}
	}

	if err := wsc.FillRandom(dst); err != nil {
		return fmt.Errorf("randomize option: %w", err)
	}

	return nil
}

// ParseLogLevel maps a configuration log level string to a slog.Level.
// Unknown values default to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parsePrimaryDeviceType parses the "%x-%02x%02x%02x%02x-%x" form. An
// absent or malformed value yields the WFA standard PC device type.
func parsePrimaryDeviceType(value string) wsc.PrimaryDeviceType {
	var pdt wsc.PrimaryDeviceType

	n, err := fmt.Sscanf(value, "%x-%02x%02x%02x%02x-%x",
		&pdt.Category, &pdt.OUI[0], &pdt.OUI[1], &pdt.OUI[2],
		&pdt.OUIType, &pdt.Subcategory)
	if err != nil || n != 6 {
		return wsc.DefaultPrimaryDeviceType()
	}

	return pdt
}
