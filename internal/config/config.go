package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Postgres   DBConfig
	Redis      RedisConfig
	S3         S3Config
	Logger     Logger
	Worker     WorkerConfig
	Downloader DownloaderConfig
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
}

type WorkerConfig struct {
	WorkerCount int
	MaxCPUUsage float64
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	JobQueueKey   string
}

type S3Config struct {
	Enabled       bool
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	ArchiveBucket string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

// DownloaderConfig controls how the external yt-dlp binary is invoked.
// Timeouts are in seconds. FailOnMissingFile decides whether a completed
// download whose file has since disappeared is flipped to failed when served.
type DownloaderConfig struct {
	BinPath              string
	DownloadDir          string
	PlaylistFetchTimeout int
	SingleFetchTimeout   int
	DownloadTimeout      int
	FailOnMissingFile    bool
}

const (
	defaultBinPath              = "yt-dlp"
	defaultDownloadDir          = "yt_dlp_downloads"
	defaultPlaylistFetchTimeout = 60
	defaultSingleFetchTimeout   = 30
	defaultDownloadTimeout      = 600
)

func (d DownloaderConfig) Bin() string {
	if d.BinPath == "" {
		return defaultBinPath
	}
	return d.BinPath
}

func (d DownloaderConfig) Dir() string {
	if d.DownloadDir == "" {
		return defaultDownloadDir
	}
	return d.DownloadDir
}

func (d DownloaderConfig) PlaylistTimeout() time.Duration {
	return secondsOrDefault(d.PlaylistFetchTimeout, defaultPlaylistFetchTimeout)
}

func (d DownloaderConfig) SingleTimeout() time.Duration {
	return secondsOrDefault(d.SingleFetchTimeout, defaultSingleFetchTimeout)
}

func (d DownloaderConfig) DownloadDeadline() time.Duration {
	return secondsOrDefault(d.DownloadTimeout, defaultDownloadTimeout)
}

func secondsOrDefault(v, def int) time.Duration {
	if v <= 0 {
		return time.Duration(def) * time.Second
	}
	return time.Duration(v) * time.Second
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
