package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port                int
	FrameWidth          int     // fallback pixel width when the detector omits frame dims
	FrameHeight         int     // fallback pixel height
	ThrottleIntervalMs  int     // minimum time between processed cycles
	MinConfidence       float64 // per-landmark confidence floor
	MaxRotationDegrees  float64 // head tilt beyond this rejects the detection
	MinLandmarks        int     // fewer landmark points than this rejects the detection
	MinEyeDistanceRatio float64 // interocular distance floor, as a fraction of box width
	RecognitionEndpoint string
	DispatchTimeoutMs   int // 0 keeps the transport default (no timeout)
	LogDirectory        string
}

func Load() *Config {
	return &Config{
		Port:                getEnvAsInt("PORT", 8080),
		FrameWidth:          getEnvAsInt("FRAME_WIDTH", 640),
		FrameHeight:         getEnvAsInt("FRAME_HEIGHT", 480),
		ThrottleIntervalMs:  getEnvAsInt("THROTTLE_INTERVAL_MS", 2000),
		MinConfidence:       getEnvAsFloat("MIN_CONFIDENCE", 0.5),
		MaxRotationDegrees:  getEnvAsFloat("MAX_ROTATION_DEGREES", 15),
		MinLandmarks:        getEnvAsInt("MIN_LANDMARKS", 6),
		MinEyeDistanceRatio: getEnvAsFloat("MIN_EYE_DISTANCE_RATIO", 0.3),
		RecognitionEndpoint: getEnv("RECOGNITION_ENDPOINT", "http://localhost:9000/recognize-batch"),
		DispatchTimeoutMs:   getEnvAsInt("DISPATCH_TIMEOUT_MS", 0),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
