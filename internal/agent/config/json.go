package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/surveysync/internal/flagx"
	"github.com/dmitrijs2005/surveysync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "3s" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config (which uses time.Duration).
type JsonConfig struct {
	RemoteURL       string `json:"remote_url"`
	RemoteNamespace string `json:"remote_namespace"`
	RemoteDatabase  string `json:"remote_database"`
	RemoteUser      string `json:"remote_user"`
	RemotePassword  string `json:"remote_password"`

	DatabasePath string `json:"database_path"`

	S3Bucket          string `json:"s3_bucket"`
	S3Region          string `json:"s3_region"`
	S3Endpoint        string `json:"s3_endpoint"`
	S3AccessKeyID     string `json:"s3_access_key_id"`
	S3SecretAccessKey string `json:"s3_secret_access_key"`
	S3PathStyle       bool   `json:"s3_path_style"`

	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncInterval        timex.Duration `json:"sync_interval"`
}

// parseJson overlays Config with values loaded from a JSON file resolved
// via the -c/-config flags. Empty JSON values leave the current Config
// value in place; read or unmarshal errors panic (caller may recover).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.RemoteURL, jc.RemoteURL)
	setString(&cfg.RemoteNamespace, jc.RemoteNamespace)
	setString(&cfg.RemoteDatabase, jc.RemoteDatabase)
	setString(&cfg.RemoteUser, jc.RemoteUser)
	setString(&cfg.RemotePassword, jc.RemotePassword)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKeyID, jc.S3AccessKeyID)
	setString(&cfg.S3SecretAccessKey, jc.S3SecretAccessKey)
	if jc.S3PathStyle {
		cfg.S3PathStyle = true
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SyncInterval.Duration != 0 {
		cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
