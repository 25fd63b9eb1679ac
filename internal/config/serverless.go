package config

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "dev"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// LogFields describes the deployment for startup logs
func (c *ServerlessConfig) LogFields() logrus.Fields {
	if !c.IsLambda {
		return logrus.Fields{"deployment_mode": "server"}
	}
	return logrus.Fields{
		"deployment_mode": "serverless",
		"function_name":   c.FunctionName,
		"region":          c.Region,
		"stage":           c.Stage,
	}
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment.
// Lambda has no durable local disk, so a sqlite store is only honoured when
// explicitly pointed at a mounted volume.
func AdaptConfigForServerless(config *Config) *Config {
	if !IsServerlessMode() {
		return config
	}

	if config.Store.Type == StoreTypeSQLite && config.Store.SQLitePath == "./data/trips.db" {
		config.Store.SQLitePath = GetEnv("EFS_SQLITE_PATH", "/mnt/efs/trips.db")
	}

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config), nil
}
