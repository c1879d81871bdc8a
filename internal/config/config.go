package config

import (
	"os"
	"strconv"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
)

// Config represents the complete application configuration
type Config struct {
	Analysis curve.Config
	Server   ServerConfig
	Database DatabaseConfig
	Paths    PathConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// PathConfig holds file system paths
type PathConfig struct {
	InputFile string
	OutputDir string
}

// Load builds the configuration from environment variables over the
// standard defaults. Call Validate afterwards; Load itself never fails.
func Load() *Config {
	analysis := curve.DefaultConfig()
	analysis.GaugeLengthMM = getEnvFloat("ECC_GAUGE_LENGTH_MM", analysis.GaugeLengthMM)
	analysis.CrackTolerance = getEnvFloat("ECC_CRACK_TOLERANCE", analysis.CrackTolerance)
	analysis.UltimateRatio = getEnvFloat("ECC_ULTIMATE_RATIO", analysis.UltimateRatio)
	analysis.SmoothWindow = getEnvInt("ECC_SMOOTH_WINDOW", analysis.SmoothWindow)
	analysis.ElasticLower = getEnvFloat("ECC_ELASTIC_LOWER", analysis.ElasticLower)
	analysis.ElasticUpper = getEnvFloat("ECC_ELASTIC_UPPER", analysis.ElasticUpper)
	analysis.InitialSearchFraction = getEnvFloat("ECC_INITIAL_SEARCH_FRACTION", analysis.InitialSearchFraction)
	analysis.TangentFloor = getEnvFloat("ECC_TANGENT_FLOOR", analysis.TangentFloor)
	analysis.TangentCeiling = getEnvFloat("ECC_TANGENT_CEILING", analysis.TangentCeiling)
	analysis.SlaveDropRatio = getEnvFloat("ECC_SLAVE_DROP_RATIO", analysis.SlaveDropRatio)
	analysis.LookaheadPoints = getEnvInt("ECC_LOOKAHEAD_POINTS", analysis.LookaheadPoints)

	return &Config{
		Analysis: analysis,
		Server: ServerConfig{
			Port:    getEnvString("PORT", "8080"),
			GinMode: getEnvString("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: getEnvString("DATABASE_URL", ""),
		},
		Paths: PathConfig{
			InputFile: getEnvString("ECC_INPUT_FILE", ""),
			OutputDir: getEnvString("ECC_OUTPUT_DIR", "."),
		},
	}
}

// Validate checks the analysis parameters.
func (c *Config) Validate() error {
	return c.Analysis.Validate()
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
