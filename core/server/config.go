package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// WorkerToken is the optional shared secret required on API requests
	// via the X-Worker-Token header. Empty disables the check.
	WorkerToken string `mapstructure:"worker_token" default:""`
	// MaxBodyBytes is the request body size ceiling for mutating requests.
	// Bodies larger than this are rejected with 413 before parsing.
	MaxBodyBytes int `mapstructure:"max_body_bytes" default:"262144"`
}
