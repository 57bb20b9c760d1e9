package config

import (
	"strconv"
	"strings"
)

// Environment variables read once at startup.
const (
	EnvShards       = "VECTORD_SHARDS"
	EnvStorePath    = "VECTORD_DB"
	EnvDataset      = "VECTORD_DATASET"
	EnvStoreBackend = "VECTORD_STORE_BACKEND"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg from the environment. A present but empty VECTORD_DB is
// kept as an empty path so that opening the store reports a configuration error.
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	if v, ok := lookup(EnvShards); ok {
		cfg.Shards.Count = ParseShardCount(v)
	}
	if v, ok := lookup(EnvStorePath); ok {
		cfg.Store.Path = v
	}
	if v, ok := lookup(EnvDataset); ok {
		cfg.Dataset.Path = v
	}
	if v, ok := lookup(EnvStoreBackend); ok && v != "" {
		cfg.Store.Backend = strings.ToLower(v)
	}
}

// ParseShardCount returns the positive integer in s, or 1 when s is not a positive integer.
func ParseShardCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}
