package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIBaseURL is the Pepesbook backend the client talks to.
	APIBaseURL string

	// StateDir is where the client keeps its persisted session.
	StateDir string

	// HTTPTimeout bounds every request issued through the gateway.
	HTTPTimeout time.Duration

	// StubPort is the listen port for the local development stub server.
	StubPort string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	baseURL := os.Getenv("PEPESBOOK_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	stateDir := os.Getenv("PEPESBOOK_STATE_DIR")
	if stateDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = "."
		}
		stateDir = filepath.Join(configDir, "pepesbook")
	}

	timeoutSeconds, err := strconv.Atoi(os.Getenv("PEPESBOOK_HTTP_TIMEOUT_SECONDS"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}

	stubPort := os.Getenv("PEPESBOOK_STUB_PORT")
	if stubPort == "" {
		stubPort = "8000"
	}

	return &Config{
		APIBaseURL:  baseURL,
		StateDir:    stateDir,
		HTTPTimeout: time.Duration(timeoutSeconds) * time.Second,
		StubPort:    stubPort,
	}, nil
}
