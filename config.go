package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all environment variables read by the App.
const EnvPrefix = "SHELF"

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string          `yaml:"git_commit" envconfig:"GIT_COMMIT" json:"git_commit"`
	GitTag                  string          `yaml:"git_tag" envconfig:"GIT_TAG" json:"git_tag"`
	BuildTime               string          `yaml:"build_time" envconfig:"BUILD_TIME" json:"build_time"`
	IsProduction            bool            `yaml:"is_production" envconfig:"IS_PRODUCTION" json:"is_production"`
	LogLevel                zapcore.Level   `yaml:"log_level" envconfig:"LOG_LEVEL" json:"log_level"`
	LogFolder               string          `yaml:"log_folder" envconfig:"LOG_FOLDER" json:"log_folder"`
	LogMaxSize              int             `yaml:"log_max_size" envconfig:"LOG_MAX_SIZE" json:"log_max_size"`
	OpsEndpointsEnable      bool            `yaml:"ops_endpoints_enable" envconfig:"OPS_ENDPOINTS_ENABLE" json:"ops_endpoints_enable"`
	ProfilerEndpointsEnable bool            `yaml:"profiler_endpoints_enable" envconfig:"PROFILER_ENDPOINTS_ENABLE" json:"profiler_endpoints_enable"`
	Server                  ServerConfig    `yaml:"server" json:"server"`
	RateLimit               RateLimitConfig `yaml:"ratelimit" json:"ratelimit"`
	Queue                   QueueConfig     `yaml:"queue" json:"queue"`
	Redis                   RedisConfig     `yaml:"redis" json:"redis"`
	BoltDB                  BoltDBConfig    `yaml:"boltdb" json:"boltdb"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST" json:"host"`
	Port            string        `yaml:"port" envconfig:"PORT" json:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" json:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" json:"request_timeout"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout"`
}

// RateLimitConfig controls the per client IP token bucket.
type RateLimitConfig struct {
	Enable     bool          `yaml:"enable" envconfig:"ENABLE" json:"enable"`
	Rate       float64       `yaml:"rate" envconfig:"RATE" json:"rate"` // tokens per second
	Burst      int           `yaml:"burst" envconfig:"BURST" json:"burst"`
	TTL        time.Duration `yaml:"ttl" envconfig:"TTL" json:"ttl"`                         // idle time before a client limiter is dropped
	TrustProxy bool          `yaml:"trust_proxy" envconfig:"TRUST_PROXY" json:"trust_proxy"` // key clients on X-REAL-IP/X-FORWARDED-FOR, only behind a proxy
}

type QueueConfig struct {
	Name       string `yaml:"name" envconfig:"NAME" json:"name"`
	BufferSize int    `yaml:"buffer_size" envconfig:"BUFFER_SIZE" json:"buffer_size"`
}

type RedisConfig struct {
	Enable        bool          `yaml:"enable" envconfig:"ENABLE" json:"enable"`
	Host          string        `yaml:"host" envconfig:"HOST" json:"host"`
	Port          string        `yaml:"port" envconfig:"PORT" json:"port"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"DIAL_TIMEOUT" json:"dial_timeout"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" json:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" json:"write_timeout"`
	PoolSize      int           `yaml:"pool_size" envconfig:"POOL_SIZE" json:"pool_size"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"POOL_TIMEOUT" json:"pool_timeout"`
	Username      string        `yaml:"username" envconfig:"USERNAME" json:"-"`
	Password      string        `yaml:"password" envconfig:"PASSWORD" json:"-"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"DATABASE_INDEX" json:"db_index"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"FILE_PATH" json:"filepath"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT" json:"timeout"`
	BucketName string        `yaml:"bucket_name" envconfig:"BUCKET_NAME" json:"bucket_name"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if config.Redis.Enable && (len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0) {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
		return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
	}

	if config.LogFolder == "" {
		config.LogFolder = "logs"
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if config.Server.RequestTimeout <= 0 {
		config.Server.RequestTimeout = 10 * time.Second
	}

	if config.Server.ShutdownTimeout <= 0 {
		config.Server.ShutdownTimeout = 15 * time.Second
	}

	if config.Queue.Name == "" {
		config.Queue.Name = EventsQueue
	}

	if config.Queue.BufferSize <= 0 {
		config.Queue.BufferSize = 1024
	}

	if config.RateLimit.Enable {
		if config.RateLimit.Rate <= 0 || config.RateLimit.Burst <= 0 {
			return errors.New("make sure to set positive rate and burst when rate limiting is enabled")
		}
		if config.RateLimit.TTL <= 0 {
			config.RateLimit.TTL = 3 * time.Minute
		}
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. The env file is optional.
func LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile(configFile)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	if envFile != "" {
		err = godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config, fmt.Errorf("failed to set environment configurations: %s", err)
		}
	}

	// Use environment variables with prefix `SHELF`.
	err = LoadConfigEnvs(EnvPrefix, config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
