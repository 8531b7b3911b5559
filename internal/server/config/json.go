package config

import (
	"os"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/flagx"
	"github.com/HazimBhatt/sharefolio/internal/timex"
	"github.com/goccy/go-json"
)

// JsonConfig is the on-disk shape of the config file. Durations accept "30m"
// style strings or integer nanoseconds. Absent keys leave the current value
// untouched; pointer fields distinguish "false/0" from "absent".
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	SessionTTL         timex.Duration `json:"session_ttl"`
	ResetCodeTTL       timex.Duration `json:"reset_code_ttl"`
	PasswordHashCost   int            `json:"password_hash_cost"`
	Production         *bool          `json:"production"`
	CORSAllowedOrigins []string       `json:"cors_allowed_origins"`
	AuthRateLimit      int            `json:"auth_rate_limit"`
	AuthRateWindow     timex.Duration `json:"auth_rate_window"`
	LogFormat          string         `json:"log_format"`
	LogLevel           string         `json:"log_level"`

	SMTPHost        string `json:"smtp_host"`
	SMTPPort        int    `json:"smtp_port"`
	SMTPUser        string `json:"smtp_user"`
	SMTPPassword    string `json:"smtp_password"`
	SMTPFrom        string `json:"smtp_from"`
	SMTPFromName    string `json:"smtp_from_name"`
	SMTPImplicitTLS *bool  `json:"smtp_implicit_tls"`

	MediaProvider       string `json:"media_provider"`
	CloudinaryCloudName string `json:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `json:"cloudinary_api_key"`
	CloudinaryAPISecret string `json:"cloudinary_api_secret"`
	MediaFolder         string `json:"media_folder"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`

	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config, if any, over config.
// A missing or malformed file panics: the process cannot start half-configured.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.SessionTTL, c.SessionTTL)
	setDuration(&config.ResetCodeTTL, c.ResetCodeTTL)
	setInt(&config.PasswordHashCost, c.PasswordHashCost)
	setBool(&config.Production, c.Production)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	setInt(&config.AuthRateLimit, c.AuthRateLimit)
	setDuration(&config.AuthRateWindow, c.AuthRateWindow)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)

	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.SMTPFromName, c.SMTPFromName)
	setBool(&config.SMTPImplicitTLS, c.SMTPImplicitTLS)

	setString(&config.MediaProvider, c.MediaProvider)
	setString(&config.CloudinaryCloudName, c.CloudinaryCloudName)
	setString(&config.CloudinaryAPIKey, c.CloudinaryAPIKey)
	setString(&config.CloudinaryAPISecret, c.CloudinaryAPISecret)
	setString(&config.MediaFolder, c.MediaFolder)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
