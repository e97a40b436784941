package helpers

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment
type Config struct {
	Env           string
	Port          string
	GraphURL      string
	GraphUsername string
	GraphPassword string
	MemURL        string
	NatsURL       string
	ZipkinAddress string
	MediaBaseURL  string
}

// LoadConfig gets key-value in .env file, if any, then reads
// the environment
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Env:           getEnv("ENV", "production"),
		Port:          getEnv("PORT", "8888"),
		GraphURL:      getEnv("GRAPH_URL", "bolt://localhost:7687"),
		GraphUsername: os.Getenv("GRAPH_USERNAME"),
		GraphPassword: os.Getenv("GRAPH_PASSWORD"),
		MemURL:        getEnv("MEM_URL", "127.0.0.1:11211"),
		NatsURL:       os.Getenv("NATS_URL"),
		ZipkinAddress: os.Getenv("ZIPKIN_ADDRESS"),
		MediaBaseURL:  getEnv("MEDIA_BASE_URL", "https://cdn.gravitalia.com/"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// ClientConfig holds the settings of the terminal gallery
type ClientConfig struct {
	Config
	APIURL  string
	Token   string
	User    string
	LogFile string
}

// LoadClientConfig reads the terminal gallery settings on top of
// the shared ones
func LoadClientConfig() ClientConfig {
	return ClientConfig{
		Config:  LoadConfig(),
		APIURL:  getEnv("GALLERY_API", "http://localhost:8888"),
		Token:   os.Getenv("GALLERY_TOKEN"),
		User:    getEnv("GALLERY_USER", "@me"),
		LogFile: os.Getenv("GALLERY_LOG"),
	}
}
