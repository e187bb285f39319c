package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	loaderr "github.com/Alaxouche/loadout/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "LOADOUT_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load resolves the tool configuration for an instance root:
// embedded defaults, then <root>/loadout.toml if present, then
// LOADOUT_-prefixed environment variables.
func Load(root string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, loaderr.Wrap(err, loaderr.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. Instance config if it exists
	if root != "" {
		path := filepath.Join(root, "loadout.toml")
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, loaderr.Wrapf(err, loaderr.ErrConfigParse, "failed to load config from %s", path).
					WithDetail("path", path)
			}
		}
	}

	// 3. Environment variables
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, loaderr.Wrap(err, loaderr.ErrConfigLoad, "failed to load env vars")
	}

	return unmarshal(k)
}

// Default returns the embedded defaults without reading any file or
// environment variable.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		// The embedded document is compiled in; failing to parse it is a
		// programming error.
		panic(err)
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic(err)
	}
	return cfg
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, loaderr.Wrap(err, loaderr.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}
