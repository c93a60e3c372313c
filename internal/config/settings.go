package config

import (
	"log"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings collects the addresses of the external collaborators and the
// server's own listen address. Everything comes from environment variables
// with local-development defaults.
type Settings struct {
	ListenAddr string

	// TranslateAPIURL is the base URL of the translation backend,
	// e.g. "http://localhost:9000/api/v1/translation".
	TranslateAPIURL string

	// RenderAPIURL is the base URL of the ISL video rendering pipeline.
	RenderAPIURL string

	// MediaBaseURL is prepended to relative video paths before playback.
	MediaBaseURL string

	// RequestTimeoutSec bounds every outbound HTTP call.
	RequestTimeoutSec int
}

// LoadSettings reads service settings from the environment.
func LoadSettings() *Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	timeout, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SEC", "30"))
	if err != nil || timeout <= 0 {
		timeout = 30
	}

	return &Settings{
		ListenAddr:        getEnv("LISTEN_ADDR", "0.0.0.0:8080"),
		TranslateAPIURL:   getEnv("TRANSLATE_API_URL", "http://localhost:9000/api/v1/translation"),
		RenderAPIURL:      getEnv("RENDER_API_URL", "http://localhost:9100/api/v1/video-generation"),
		MediaBaseURL:      getEnv("MEDIA_BASE_URL", "http://localhost:8080"),
		RequestTimeoutSec: timeout,
	}
}

// SignboardSettings configures the display agent.
type SignboardSettings struct {
	// ServerURL is the signage backend REST base, e.g. "http://localhost:8080/api/v1".
	ServerURL string

	// SocketURL is the websocket endpoint of the status channel.
	SocketURL string

	// MediaBaseURL resolves relative video references for playback.
	MediaBaseURL string

	RequestTimeoutSec int
}

// LoadSignboardSettings reads display agent settings from the environment.
func LoadSignboardSettings() *SignboardSettings {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	timeout, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SEC", "15"))
	if err != nil || timeout <= 0 {
		timeout = 15
	}

	return &SignboardSettings{
		ServerURL:         getEnv("SIGNAGE_SERVER_URL", "http://localhost:8080/api/v1"),
		SocketURL:         getEnv("SIGNAGE_SOCKET_URL", "ws://localhost:8080/ws/announcements"),
		MediaBaseURL:      getEnv("MEDIA_BASE_URL", "http://localhost:8080"),
		RequestTimeoutSec: timeout,
	}
}
