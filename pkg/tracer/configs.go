package tracer

type Config struct {
	// ServiceName identifies this service in exported traces
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is the deployment environment (e.g. "production", "staging")
	AppEnv string `yaml:"app_env" envconfig:"TRACER_APP_ENV"`

	// EnableExport controls whether spans are exported over OTLP HTTP.
	// When false the provider still records spans and propagates context,
	// which is what unit tests and local development want.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`
}
