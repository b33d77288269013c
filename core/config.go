package core

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName  string
		Env      string // DEV (default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		Build    string
		WorkDir  string

		SecretKey        string
		RollbarToken     string
		DefaultFromEmail mail.Address

		Server       ServerConfig
		Database     DatabaseConfig
		Uploads      UploadsConfig
		Notification NotificationConfig
	}

	ServerConfig struct {
		Host                      string
		Port                      int
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		// BotAPIKey authenticates the chat-bot adapter on the connect endpoint.
		BotAPIKey string
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          int
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	UploadsConfig struct {
		Dir                   string
		MaxSubmissionFileSize int64
		MaxMaterialFileSize   int64
	}

	NotificationConfig struct {
		// Backend is one of: console, maxbot, sendgrid.
		Backend     string
		MaxBotToken string
		SendgridKey string
	}
)

func (c ServerConfig) Address() string   { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
func (c DatabaseConfig) Address() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// NewConfig loads the app configuration from the environment;
// a config/.env.<env> file is loaded first if it exists.
func NewConfig() (*Config, error) {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "w3=r8^darasa)9$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("serverHost", "0.0.0.0")
	conf.SetDefault("serverPort", 8000)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("botAPIKey", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseName", "darasa")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", 5432)
	conf.SetDefault("databaseUser", "")
	conf.SetDefault("databasePassword", "")
	conf.SetDefault("databaseAdminUser", "")
	conf.SetDefault("databaseAdminPassword", "")
	conf.SetDefault("databaseDisableTLS", true)
	conf.SetDefault("uploadsDir", "uploads")
	conf.SetDefault("maxSubmissionFileSize", int64(10<<20))
	conf.SetDefault("maxMaterialFileSize", int64(50<<20))
	conf.SetDefault("notificationBackend", "console")
	conf.SetDefault("maxBotToken", "")
	conf.SetDefault("sendgridKey", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:          conf.GetString("appName"),
		Env:              env,
		Debug:            conf.GetBool("debug"),
		TestMode:         env == "TEST",
		Build:            conf.GetString("build"),
		WorkDir:          wd,
		SecretKey:        conf.GetString("secretKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		Server: ServerConfig{
			Host:                      conf.GetString("serverHost"),
			Port:                      conf.GetInt("serverPort"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
			BotAPIKey:                 conf.GetString("botAPIKey"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Name:          conf.GetString("databaseName"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetInt("databasePort"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
		Uploads: UploadsConfig{
			Dir:                   conf.GetString("uploadsDir"),
			MaxSubmissionFileSize: conf.GetInt64("maxSubmissionFileSize"),
			MaxMaterialFileSize:   conf.GetInt64("maxMaterialFileSize"),
		},
		Notification: NotificationConfig{
			Backend:     conf.GetString("notificationBackend"),
			MaxBotToken: conf.GetString("maxBotToken"),
			SendgridKey: conf.GetString("sendgridKey"),
		},
	}, nil
}

// NewTestConfig returns a Config suitable for tests: no external
// collaborators, small upload limits, fixed secret.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "Darasa",
		Env:              "TEST",
		Debug:            true,
		TestMode:         true,
		Build:            "test",
		SecretKey:        "secret",
		DefaultFromEmail: mail.Address{Name: "Darasa", Address: "noreply@localhost"},
		Server: ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: time.Hour,
			BotAPIKey:                 "bot-test-key",
		},
		Uploads: UploadsConfig{
			Dir:                   os.TempDir(),
			MaxSubmissionFileSize: 1 << 20,
			MaxMaterialFileSize:   1 << 20,
		},
		Notification: NotificationConfig{Backend: "console"},
	}
}
