package metrics

type Config struct {
	// ServiceName is attached as a label to every metric
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`

	// Address is the listen address of the exposition endpoint
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process, and build
	// info collectors
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`
}
