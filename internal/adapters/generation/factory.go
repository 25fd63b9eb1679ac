package generation

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Mode represents the generation client implementation
type Mode string

const (
	ModeLive Mode = "live"
	ModeMock Mode = "mock"
)

// Config holds the settings needed to build a client
type Config struct {
	Mode    string
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Factory creates TextGenerationClient instances based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new generation client factory
func NewFactory(logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{logger: logger}
}

// Create creates a TextGenerationClient for the configured mode
func (f *Factory) Create(config *Config) (TextGenerationClient, error) {
	if config == nil {
		return nil, fmt.Errorf("generation config is required")
	}

	mode := Mode(strings.ToLower(config.Mode))
	if mode == "" {
		mode = ModeLive
	}

	switch mode {
	case ModeLive:
		client, err := NewGeminiClient(config.BaseURL, config.APIKey, config.Model, config.Timeout, f.logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ModeMock:
		f.logger.Info("GENERATION_MODE=mock detected, using mock generation client")
		return NewMockClient(config.Model), nil
	default:
		return nil, fmt.Errorf("unsupported generation mode: %s", config.Mode)
	}
}
