package config

import "time"

// Config holds runtime settings for the surveysync agent.
//
// Fields:
//   - RemoteURL/RemoteNamespace/RemoteDatabase: the hosted document store.
//   - DatabasePath: the local SQLite cache file.
//   - S3*: the blob store holding report images.
//   - OnlineCheckInterval: how often the agent probes remote reachability.
//   - SyncInterval: how often the queue is drained while online.
//
// Units: intervals are time.Duration (e.g. 3*time.Second).
type Config struct {
	RemoteURL       string
	RemoteNamespace string
	RemoteDatabase  string
	RemoteUser      string
	RemotePassword  string

	DatabasePath string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PathStyle       bool

	OnlineCheckInterval time.Duration
	SyncInterval        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteURL = "ws://127.0.0.1:8000/rpc"
	c.RemoteNamespace = "surveysync"
	c.RemoteDatabase = "surveys"
	c.DatabasePath = "surveys.db"
	c.S3Region = "us-east-1"
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncInterval = 5 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
