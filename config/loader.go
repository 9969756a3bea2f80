package config

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
)

// tokenEnv lists the environment variables consulted for the access token.
var tokenEnv = []string{EnvVar(KeyGHToken), "GITHUB_TOKEN"}

// Loader resolves a Config from a viper instance.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader returns a Loader with defaults and environment binding set up.
// An empty configFile searches the working directory for DefaultConfigName.
func NewLoader(configFile string) *Loader {
	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(append([]string{KeyGHToken}, tokenEnv...)...)

	return &Loader{v: v, configFile: configFile}
}

// BindFlags binds every flag of the set whose name is a configuration key.
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	keys := Defaults()
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if _, ok := keys[f.Name]; !ok || bindErr != nil {
			return
		}
		if err := l.v.BindPFlag(f.Name, f); err != nil {
			bindErr = errors.Wrapf(err, errors.CodeInvalidConfig, "failed to bind flag %s", f.Name)
		}
	})
	return bindErr
}

// Set overrides a key regardless of its source.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// Load reads the config file, if any, and decodes all settings.
func (l *Loader) Load() (*Config, error) {
	if err := l.readFile(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidConfig, "failed to decode configuration", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the file read by Load, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) readFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, errors.CodeInvalidConfig, "failed to read config file %s", l.configFile)
		}
		return nil
	}

	l.v.SetConfigName(DefaultConfigName)
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if stderrors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(errors.CodeInvalidConfig, "failed to read config file", err)
	}
	return nil
}
