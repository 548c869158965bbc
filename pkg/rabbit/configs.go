package rabbit

type Config struct {
	Connection Connection
	Channel    Channel
	DeadLetter DeadLetter
}

type Connection struct {
	Host           string `yaml:"host" envconfig:"RABBIT_HOST"`
	Port           uint   `yaml:"port" envconfig:"RABBIT_PORT"`
	User           string `yaml:"user" envconfig:"RABBIT_USER"`
	Password       string `yaml:"password" envconfig:"RABBIT_PASSWORD"`
	IsSSLEnabled   bool   `yaml:"is_ssl_enabled" envconfig:"RABBIT_IS_SSL_ENABLED"`
	UseCert        bool   `yaml:"use_cert" envconfig:"RABBIT_USE_CERT"`
	CACertPath     string `yaml:"ca_cert_path" envconfig:"RABBIT_CA_CERT_PATH"`
	ClientCertPath string `yaml:"client_cert_path" envconfig:"RABBIT_CLIENT_CERT_PATH"`
	ClientKeyPath  string `yaml:"client_key_path" envconfig:"RABBIT_CLIENT_KEY_PATH"`
	ServerName     string `yaml:"server_name" envconfig:"RABBIT_SERVER_NAME"`
}

type Channel struct {
	ExchangeName  string `yaml:"exchange_name" envconfig:"RABBIT_EXCHANGE_NAME"`
	ExchangeType  string `yaml:"exchange_type" envconfig:"RABBIT_EXCHANGE_TYPE"`
	RoutingKey    string `yaml:"routing_key" envconfig:"RABBIT_ROUTING_KEY"`
	QueueName     string `yaml:"queue_name" envconfig:"RABBIT_QUEUE_NAME"`
	PrefetchCount int    `yaml:"prefetch_count" envconfig:"RABBIT_PREFETCH_COUNT"`
	IsConsumer    bool   `yaml:"is_consumer" envconfig:"RABBIT_IS_CONSUMER"`
	ContentType   string `yaml:"content_type" envconfig:"RABBIT_CONTENT_TYPE"`
}

type DeadLetter struct {
	ExchangeName string `yaml:"exchange_name" envconfig:"RABBIT_DL_EXCHANGE_NAME"`
	QueueName    string `yaml:"queue_name" envconfig:"RABBIT_DL_QUEUE_NAME"`
	RoutingKey   string `yaml:"routing_key" envconfig:"RABBIT_DL_ROUTING_KEY"`
	Ttl          int    `yaml:"ttl" envconfig:"RABBIT_DL_TTL"`
}
