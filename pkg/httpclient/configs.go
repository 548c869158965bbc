package httpclient

import "time"

type Config struct {
	// Timeout bounds each request end to end; zero means no timeout
	Timeout time.Duration `yaml:"timeout" envconfig:"HTTP_CLIENT_TIMEOUT"`
}
