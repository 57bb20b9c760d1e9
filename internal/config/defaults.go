package config

import "time"

// DefaultStorePath is used when neither the file nor the environment names a store.
const DefaultStorePath = "/usr/local/var/vectord/vectord.db"

// DefaultCacheSize is the query embedding cache size when the config leaves it unset.
const DefaultCacheSize = 1024

// ApplyDefaults sets default values for any zero values in cfg. An explicit
// embedding.cache_size of 0 is kept.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 50051
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "bolt"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Shards.Count <= 0 {
		cfg.Shards.Count = 1
	}
	if cfg.Embedding.CacheSize == nil {
		size := DefaultCacheSize
		cfg.Embedding.CacheSize = &size
	}
}
