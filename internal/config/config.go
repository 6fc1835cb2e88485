// Package config loads the broker-wide session options max_clientid_len,
// cache_acl and retry_interval_seconds, plus the listener-level
// settings the session core itself never reads but the surrounding
// process needs. ws_initial_headers is not a config key: the transport
// captures it from the WebSocket upgrade request. Loading uses
// github.com/spf13/viper with github.com/fsnotify/fsnotify-driven hot
// reload.
package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the subset of broker configuration this module cares
// about. Only MaxClientIDLen, CacheACL, and RetryInterval are read by
// a live Session (via session.Option); the rest configures the
// listener, which is outside the session core's scope (spec §1).
type Config struct {
	MaxClientIDLen      int    `mapstructure:"max_clientid_len"`
	CacheACL            bool   `mapstructure:"cache_acl"`
	RetryIntervalSecs   int    `mapstructure:"retry_interval_seconds"`
	MetricsEnabled      bool   `mapstructure:"metrics_enabled"`
	MetricsListenAddr   string `mapstructure:"metrics_listen_addr"`
	WebsocketListenAddr string `mapstructure:"websocket_listen_addr"`
}

// RetryInterval converts RetryIntervalSecs to a time.Duration.
func (c Config) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalSecs) * time.Second
}

func defaults(v *viper.Viper) {
	v.SetDefault("max_clientid_len", 1024)
	v.SetDefault("cache_acl", true)
	v.SetDefault("retry_interval_seconds", 30)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_listen_addr", ":9641")
	v.SetDefault("websocket_listen_addr", ":8083")
}

// Loader reads broker configuration from a file and environment
// variables, and can notify a callback whenever the file changes on
// disk.
type Loader struct {
	v *viper.Viper
}

// NewLoader builds a Loader reading path (e.g. "broker.yaml") with
// MQSESSION_-prefixed environment variable overrides.
func NewLoader(path string) *Loader {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("mqsession")
	v.AutomaticEnv()
	defaults(v)
	return &Loader{v: v}
}

// Load reads the config file and unmarshals it into a Config.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Watch reloads the config on every write to the underlying file,
// invoking onChange with the freshly parsed Config. If the reloaded
// config fails to unmarshal, onChange is not called; the error goes to
// onErr when onErr is non-nil and is otherwise dropped.
func (l *Loader) Watch(onChange func(Config), onErr func(error)) {
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := l.v.Unmarshal(&cfg); err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("reload config: %w", err))
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}
