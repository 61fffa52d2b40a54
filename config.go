package webserver

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server's runtime settings.
type Config struct {
	// WWWRoot is the directory files are served from.
	WWWRoot string `yaml:"www_root"`
	// Port is the TCP port the server listens on.
	Port int `yaml:"port"`
	// WorkerThreads caps the scheduler's processors when positive.
	WorkerThreads int `yaml:"worker_threads"`
	// CacheSize is the maximum number of entries in the content cache.
	CacheSize int `yaml:"cache_size"`
	// Local binds the listener to the loopback interface only.
	Local bool `yaml:"local"`
	// StreamingThreshold is the file size in bytes above which responses
	// are streamed from disk instead of held in memory.
	StreamingThreshold int64 `yaml:"streaming_threshold"`
	// ChunkSize is the read buffer size in bytes used while streaming.
	ChunkSize int `yaml:"chunk_size"`
	// EnableRangeRequests advertises Range support via Accept-Ranges.
	EnableRangeRequests bool `yaml:"enable_range_requests"`
	// ManagementAddr, when set, serves the management API on this
	// address.
	ManagementAddr string `yaml:"management_addr"`
	// AccessLog, when set, persists the access log in this SQLite
	// database instead of memory.
	AccessLog string `yaml:"access_log"`
}

// DefaultConfig returns the built-in settings used when no configuration
// file is present.
func DefaultConfig() Config {
	return Config{
		WWWRoot:             ".",
		Port:                7878,
		WorkerThreads:       0,
		CacheSize:           5,
		Local:               true,
		StreamingThreshold:  10485760,
		ChunkSize:           262144,
		EnableRangeRequests: true,
	}
}

// GetConfig reads the YAML configuration file at filename. Settings the
// file does not mention keep their defaults.
func GetConfig(filename string) (Config, error) {
	config := DefaultConfig()
	contents, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return config, err
	}
	return config, nil
}
