// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	syncStats = pflag.Bool("sync-stats", false, "Resyncs the stats ledger from the live bucket listing on startup")

	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validSources   = []string{"bucket", "ledger", "drive"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("cloudflare.account_id", "cloudflare_account_id")
	v.BindEnv("cloudflare.access_key_id", "cloudflare_access_key_id")
	v.BindEnv("cloudflare.secret_access_key", "cloudflare_secret_access_key")
	v.BindEnv("cloudflare.bucket", "cloudflare_bucket")
	v.BindEnv("cloudflare.public_url", "cloudflare_public_url")

	v.BindEnv("gallery.source", "gallery_source")
	v.BindEnv("gallery.max_items", "gallery_max_items")
	v.BindEnv("gallery.url_ttl", "gallery_url_ttl")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("upload.presign_ttl", "upload_presign_ttl")
	v.BindEnv("upload.password", "upload_password")

	v.BindEnv("admin.password", "admin_password")
	v.BindEnv("admin.session_ttl", "admin_session_ttl")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("notes.url", "notes_url")
	v.BindEnv("notes.api_key", "notes_api_key")

	v.BindEnv("drive.folder_url", "drive_folder_url")
	v.BindEnv("drive.api_key", "drive_api_key")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("gallery.source", "bucket")
	v.SetDefault("gallery.max_items", 100)
	v.SetDefault("gallery.url_ttl", 3600)

	v.SetDefault("upload.max_size", 500)
	v.SetDefault("upload.presign_ttl", 900)

	v.SetDefault("admin.session_ttl", 43200)

	v.SetDefault("database.driver", "sqlite")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("cloudflare.account_id") == "" {
		return errors.New("account id can't be empty")
	}
	if v.GetString("cloudflare.access_key_id") == "" {
		return errors.New("account access id can't be empty")
	}
	if v.GetString("cloudflare.secret_access_key") == "" {
		return errors.New("secret access key can't be empty")
	}
	if v.GetString("cloudflare.bucket") == "" {
		return errors.New("bucket can't be empty")
	}

	if !slices.Contains(validSources, v.GetString("gallery.source")) {
		return errors.New("invalid gallery source provided")
	}

	if v.GetString("gallery.source") == "drive" && v.GetString("drive.folder_url") == "" {
		return errors.New("drive.folder_url is required when the drive source is active")
	}

	if v.GetInt("gallery.max_items") <= 0 {
		return errors.New("gallery.max_items must be bigger than 0")
	}

	if v.GetInt("gallery.url_ttl") <= 0 {
		return errors.New("gallery.url_ttl must be bigger than 0")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetInt("upload.presign_ttl") <= 0 {
		return errors.New("upload.presign_ttl must be bigger than 0")
	}

	if v.GetInt("admin.session_ttl") <= 0 {
		return errors.New("admin.session_ttl must be bigger than 0")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.driver") == "postgres" && v.GetString("database.dsn") == "" {
		return errors.New("database.dsn is required for postgres")
	}

	if v.GetString("admin.password") == "" {
		return errors.New("admin.password can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetString("notes.api_key") == "" && v.GetString("notes.url") != "" {
		return errors.New("notes.api_key is required when notes.url is set")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
