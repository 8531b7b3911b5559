package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "SHAREFOLIO_"

// parseEnv loads a dotenv file (the -env flag, else ./.env when present) and
// then overlays environment variables. Variables already set in the process
// environment win over the file. Malformed numeric or duration values panic.
func parseEnv(config *Config) {
	loadDotEnv(flagx.EnvFileFlag())

	// Conventional names used by hosting platforms.
	if port := os.Getenv("PORT"); port != "" {
		config.HTTPAddr = ":" + port
	}
	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.SecretKey, "JWT_SECRET")

	envString(&config.HTTPAddr, envPrefix+"HTTP_ADDR")
	envString(&config.DatabaseDSN, envPrefix+"DATABASE_DSN")
	envString(&config.SecretKey, envPrefix+"SECRET_KEY")
	envDuration(&config.SessionTTL, envPrefix+"SESSION_TTL")
	envDuration(&config.ResetCodeTTL, envPrefix+"RESET_CODE_TTL")
	envInt(&config.PasswordHashCost, envPrefix+"PASSWORD_HASH_COST")
	envBool(&config.Production, envPrefix+"PRODUCTION")
	envList(&config.CORSAllowedOrigins, envPrefix+"CORS_ALLOWED_ORIGINS")
	envInt(&config.AuthRateLimit, envPrefix+"AUTH_RATE_LIMIT")
	envDuration(&config.AuthRateWindow, envPrefix+"AUTH_RATE_WINDOW")
	envString(&config.LogFormat, envPrefix+"LOG_FORMAT")
	envString(&config.LogLevel, envPrefix+"LOG_LEVEL")

	envString(&config.SMTPHost, envPrefix+"SMTP_HOST")
	envInt(&config.SMTPPort, envPrefix+"SMTP_PORT")
	envString(&config.SMTPUser, envPrefix+"SMTP_USER")
	envString(&config.SMTPPassword, envPrefix+"SMTP_PASSWORD")
	envString(&config.SMTPFrom, envPrefix+"SMTP_FROM")
	envString(&config.SMTPFromName, envPrefix+"SMTP_FROM_NAME")
	envBool(&config.SMTPImplicitTLS, envPrefix+"SMTP_IMPLICIT_TLS")

	envString(&config.MediaProvider, envPrefix+"MEDIA_PROVIDER")
	envString(&config.CloudinaryCloudName, envPrefix+"CLOUDINARY_CLOUD_NAME")
	envString(&config.CloudinaryAPIKey, envPrefix+"CLOUDINARY_API_KEY")
	envString(&config.CloudinaryAPISecret, envPrefix+"CLOUDINARY_API_SECRET")
	envString(&config.MediaFolder, envPrefix+"MEDIA_FOLDER")

	envString(&config.S3RootUser, envPrefix+"S3_ROOT_USER")
	envString(&config.S3RootPassword, envPrefix+"S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, envPrefix+"S3_BUCKET")
	envString(&config.S3Region, envPrefix+"S3_REGION")
	envString(&config.S3BaseEndpoint, envPrefix+"S3_BASE_ENDPOINT")

	envDuration(&config.ShutdownTimeout, envPrefix+"SHUTDOWN_TIMEOUT")
}

func loadDotEnv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envBool(dst *bool, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	*dst = b
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envList(dst *[]string, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
