// Package config centralises all environment configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business‑logic
// layers receive an already‑built Config instance via dependency‑injection.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Generator backends.
const (
	BackendEcho   = "echo"
	BackendVertex = "vertex"
	BackendOpenAI = "openai"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple; prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port string

	// Data stores. An empty MongoURI runs the server without persistence.
	MongoURI string
	DBName   string

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Generation engine
	GeneratorBackend string

	// Vertex AI
	ProjectID            string
	Location             string
	CredentialsFile      string
	VertexModel          string
	VertexEmbeddingModel string

	// OpenAI-compatible endpoint (OpenAI, llama.cpp, vLLM …)
	OpenAIBaseURL        string
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIEmbeddingModel string

	// Response shaping
	TokenDelay       time.Duration // pacing between character frames
	MaxCandidates    int           // cap on candidate ids in envelopes and logs
	SearchCandidates int           // products retrieved in search mode before truncation

	// Usage telemetry file; "-" disables it.
	UsageLogPath     string
	UsageLogMaxBytes int64
}

// Load parses the environment (and an optional .env file) into Config.
// It exits on missing critical variables so mis‑configurations fail fast.
func Load() Config {
	// godotenv.Load() is a no‑op if .env doesn't exist, safe in production.
	_ = godotenv.Load()

	return Config{
		Port:                 must("PORT"),
		MongoURI:             os.Getenv("MONGODB_URI"),
		DBName:               getEnv("MONGODB_DB", "chatda"),
		ReadTimeout:          getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout:         getDuration("WRITE_TIMEOUT_SEC", 300),
		GeneratorBackend:     getEnv("GENERATOR_BACKEND", BackendEcho),
		ProjectID:            os.Getenv("GCP_PROJECT_ID"),
		Location:             getEnv("GCP_LOCATION", "us-central1"),
		CredentialsFile:      os.Getenv("GCP_CREDENTIALS_FILE"),
		VertexModel:          getEnv("VERTEX_MODEL", "gemini-2.0-flash-lite-001"),
		VertexEmbeddingModel: getEnv("VERTEX_EMBEDDING_MODEL", "text-multilingual-embedding-002"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", "dummy"),
		OpenAIModel:          os.Getenv("OPENAI_MODEL"),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		TokenDelay:           time.Duration(getInt("TOKEN_DELAY_MS", 20)) * time.Millisecond,
		MaxCandidates:        getInt("MAX_CANDIDATES", 10),
		SearchCandidates:     getInt("SEARCH_CANDIDATES", 50),
		UsageLogPath:         getEnv("USAGE_LOG_PATH", "logs/usage.log"),
		UsageLogMaxBytes:     int64(getInt("USAGE_LOG_MAX_MB", 50)) << 20,
	}
}

// Validate checks the combinations Load cannot check key by key.
func (c Config) Validate() error {
	switch c.GeneratorBackend {
	case BackendEcho:
	case BackendVertex:
		if c.ProjectID == "" {
			return fmt.Errorf("GENERATOR_BACKEND=%s requires GCP_PROJECT_ID", c.GeneratorBackend)
		}
	case BackendOpenAI:
		if c.OpenAIModel == "" {
			return fmt.Errorf("GENERATOR_BACKEND=%s requires OPENAI_MODEL", c.GeneratorBackend)
		}
	default:
		return fmt.Errorf("unknown GENERATOR_BACKEND %q", c.GeneratorBackend)
	}
	if c.GeneratorBackend != BackendEcho && c.MongoURI == "" {
		return fmt.Errorf("GENERATOR_BACKEND=%s requires MONGODB_URI for the product catalog", c.GeneratorBackend)
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("MAX_CANDIDATES must be positive, got %d", c.MaxCandidates)
	}
	if c.SearchCandidates < c.MaxCandidates {
		return fmt.Errorf("SEARCH_CANDIDATES (%d) must be at least MAX_CANDIDATES (%d)", c.SearchCandidates, c.MaxCandidates)
	}
	return nil
}

// must fetches a required env var or terminates the program.
func must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("env var %s is required", key)
	}
	return val
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt reads an integer from env, falling back to defaultVal.
func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid %s=%q; using default %d", key, v, defaultVal)
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	return time.Duration(getInt(key, defaultSec)) * time.Second
}
