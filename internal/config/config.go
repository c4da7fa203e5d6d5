package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultRegion      = "us-east-1"
	DefaultPrefix      = "backups/mongodb"
	DefaultDumpPath    = "mongodump"
	DefaultRestorePath = "mongorestore"
	DefaultLogLevel    = "info"

	dumpExecutableName    = "mongodump"
	restoreExecutableName = "mongorestore"
)

var ErrMissingValue = errors.New("missing required environment variable")

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
	AWS     AWSConfig     `mapstructure:"aws"`
	S3      S3Config      `mapstructure:"s3"`
	Tools   ToolsConfig   `mapstructure:"tools"`
	Backup  BackupConfig  `mapstructure:"backup"`
	Notify  NotifyConfig  `mapstructure:"notify"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type MongoDBConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type AWSConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
}

type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

type ToolsConfig struct {
	MongodumpPath    string `mapstructure:"mongodump_path"`
	MongorestorePath string `mapstructure:"mongorestore_path"`
}

type BackupConfig struct {
	// Retention is the number of newest backups kept by scheduled runs; 0 keeps everything.
	Retention int `mapstructure:"retention"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// LookupFunc reports the value of an environment variable, as os.LookupEnv does.
type LookupFunc func(key string) (string, bool)

// Overrides carries values given on the command line. Empty fields are ignored.
type Overrides struct {
	Bucket string
	Prefix string
}

type LoadOptions struct {
	// File is an optional YAML config file; environment values take precedence over it.
	File      string
	Lookup    LookupFunc
	Overrides Overrides
}

type binding struct {
	key string
	env string
}

// Order matters: required keys are validated in this order.
var bindings = []binding{
	{"mongodb.uri", "MONGODB_URI"},
	{"mongodb.database", "MONGODB_DATABASE"},
	{"aws.access_key_id", "AWS_ACCESS_KEY_ID"},
	{"aws.secret_access_key", "AWS_SECRET_ACCESS_KEY"},
	{"aws.region", "AWS_REGION"},
	{"aws.endpoint", "AWS_ENDPOINT"},
	{"s3.bucket", "S3_BUCKET"},
	{"s3.prefix", "S3_PREFIX"},
	{"tools.mongodump_path", "MONGODUMP_PATH"},
	{"tools.mongorestore_path", "MONGORESTORE_PATH"},
	{"app.log_level", "LOG_LEVEL"},
	{"app.log_file", "LOG_FILE"},
	{"backup.retention", "BACKUP_RETENTION"},
	{"notify.telegram.bot_token", "TELEGRAM_BOT_TOKEN"},
	{"notify.telegram.chat_id", "TELEGRAM_CHAT_ID"},
}

func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("aws.region", DefaultRegion)
	v.SetDefault("s3.prefix", DefaultPrefix)
	v.SetDefault("tools.mongodump_path", DefaultDumpPath)
	v.SetDefault("app.log_level", DefaultLogLevel)
	v.SetDefault("backup.retention", 0)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if opts.Lookup != nil {
		for _, b := range bindings {
			if value, ok := opts.Lookup(b.env); ok && value != "" {
				v.Set(b.key, value)
			}
		}
	}

	if opts.Overrides.Bucket != "" {
		v.Set("s3.bucket", opts.Overrides.Bucket)
	}
	if opts.Overrides.Prefix != "" {
		v.Set("s3.prefix", opts.Overrides.Prefix)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.S3.Prefix = strings.Trim(cfg.S3.Prefix, "/")
	if cfg.Tools.MongorestorePath == "" {
		cfg.Tools.MongorestorePath = RestorePathFor(cfg.Tools.MongodumpPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RestorePathFor derives the mongorestore location from a mongodump location,
// so a MONGODUMP_PATH pointing into a tools directory finds its sibling.
func RestorePathFor(dumpPath string) string {
	if dumpPath == "" {
		return DefaultRestorePath
	}
	dir, base := filepath.Split(dumpPath)
	if !strings.Contains(base, dumpExecutableName) {
		return DefaultRestorePath
	}
	return dir + strings.Replace(base, dumpExecutableName, restoreExecutableName, 1)
}

func (c *Config) Validate() error {
	required := []struct {
		env   string
		value string
	}{
		{"MONGODB_URI", c.MongoDB.URI},
		{"MONGODB_DATABASE", c.MongoDB.Database},
		{"AWS_ACCESS_KEY_ID", c.AWS.AccessKeyID},
		{"AWS_SECRET_ACCESS_KEY", c.AWS.SecretAccessKey},
		{"S3_BUCKET", c.S3.Bucket},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingValue, r.env)
		}
	}

	if c.Backup.Retention < 0 {
		return fmt.Errorf("BACKUP_RETENTION must not be negative, got %d", c.Backup.Retention)
	}

	return nil
}

func (c *Config) TelegramEnabled() bool {
	return c.Notify.Telegram.BotToken != "" && c.Notify.Telegram.ChatID != ""
}
