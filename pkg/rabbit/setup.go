package rabbit

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/traceably/spanwrap/pkg/observability"
	"github.com/traceably/spanwrap/pkg/tracing"
)

// Logger is the logging contract this package expects. Any implementation
// with these methods can be plugged in.
//
//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=rabbit
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Rabbit is a RabbitMQ client with automatic reconnection. Every publish runs
// inside a messaging span and carries the trace context in the message
// headers, so consumers on the other side join the same trace.
type Rabbit struct {
	cfg Config

	// Channel is the AMQP channel used for publishing and consuming. It is
	// exposed for direct operations the wrapper does not cover.
	Channel *amqp.Channel

	conn     *amqp.Connection
	logger   Logger
	runner   *tracing.Runner
	observer observability.Observer

	// mu protects conn and Channel across reconnects.
	mu sync.RWMutex

	// shutdownSignal is closed when the client is being shut down.
	shutdownSignal chan struct{}
}

// NewClient connects to RabbitMQ and sets up the channel, exchange, queue,
// and bindings described by config. Publishes made through the returned
// client are traced by runner. Connection or channel failure is fatal.
func NewClient(config Config, logger Logger, runner *tracing.Runner) *Rabbit {
	con, err := newConnection(config, logger)
	if err != nil {
		logger.Fatal("error in connecting to rabbit after all retries", nil, nil)
	}

	ch, err := connectToChannel(con, config, logger)
	if ch == nil || err != nil {
		logger.Fatal("error in declaring channel", nil, nil)
	}

	return &Rabbit{
		cfg:            config,
		conn:           con,
		Channel:        ch,
		logger:         logger,
		runner:         runner,
		shutdownSignal: make(chan struct{}),
	}
}

// connectToChannel opens a channel on conn and declares the exchange, queue,
// binding, QoS, and optional dead letter topology from cfg. Publishers that
// are not consumers get a bare confirmed channel.
func connectToChannel(conn *amqp.Connection, cfg Config, logger Logger) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to create channel", err, nil)
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err = ch.Confirm(false); err != nil {
		logger.Error("failed to enable publisher confirms", err, nil)
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if !cfg.Channel.IsConsumer {
		return ch, nil
	}

	err = ch.ExchangeDeclare(
		cfg.Channel.ExchangeName,
		cfg.Channel.ExchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		logger.Error("failed to declare exchange", err, map[string]interface{}{
			"exchange": cfg.Channel.ExchangeName,
		})
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queueArgs := amqp.Table{}
	if cfg.DeadLetter.ExchangeName != "" && cfg.DeadLetter.Ttl > 0 {
		if err = declareDeadLetter(ch, cfg.DeadLetter, logger); err != nil {
			return nil, err
		}
		queueArgs = amqp.Table{
			"x-dead-letter-exchange":    cfg.DeadLetter.ExchangeName,
			"x-dead-letter-routing-key": cfg.DeadLetter.RoutingKey,
			"x-message-ttl":             cfg.DeadLetter.Ttl * 1000, // Convert to milliseconds
		}
	}

	_, err = ch.QueueDeclare(
		cfg.Channel.QueueName,
		true,      // Durable
		false,     // AutoDelete
		false,     // Exclusive
		false,     // NoWait
		queueArgs, // Arguments including dead letter config
	)
	if err != nil {
		logger.Error("failed to declare queue", err, map[string]interface{}{
			"queue": cfg.Channel.QueueName,
		})
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = ch.QueueBind(
		cfg.Channel.QueueName,
		cfg.Channel.RoutingKey,
		cfg.Channel.ExchangeName,
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		logger.Error("failed to bind queue", err, map[string]interface{}{
			"queue":    cfg.Channel.QueueName,
			"exchange": cfg.Channel.ExchangeName,
		})
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	if cfg.Channel.PrefetchCount > 0 {
		err = ch.Qos(cfg.Channel.PrefetchCount, 0, false)
		if err != nil {
			logger.Error("failed to set QoS", err, map[string]interface{}{
				"prefetch_count": cfg.Channel.PrefetchCount,
			})
			return nil, fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	return ch, nil
}

// declareDeadLetter sets up the dead letter exchange, queue, and binding.
func declareDeadLetter(ch *amqp.Channel, dl DeadLetter, logger Logger) error {
	err := ch.ExchangeDeclare(
		dl.ExchangeName,
		"direct",
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		logger.Error("failed to declare dead letter exchange", err, map[string]interface{}{
			"exchange": dl.ExchangeName,
		})
		return fmt.Errorf("failed to declare dead letter exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		dl.QueueName,
		true,  // Durable
		false, // AutoDelete
		false, // Exclusive
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		logger.Error("failed to declare dead letter queue", err, map[string]interface{}{
			"queue": dl.QueueName,
		})
		return fmt.Errorf("failed to declare dead letter queue: %w", err)
	}

	err = ch.QueueBind(
		dl.QueueName,
		dl.RoutingKey,
		dl.ExchangeName,
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		logger.Error("failed to bind dead letter queue", err, map[string]interface{}{
			"queue":    dl.QueueName,
			"exchange": dl.ExchangeName,
		})
		return fmt.Errorf("failed to bind dead letter queue: %w", err)
	}
	return nil
}

// RetryConnection watches the connection and re-establishes it when it drops,
// including the channel topology. Runs until the shutdown signal fires;
// typically started in a goroutine by the fx lifecycle.
func (rb *Rabbit) RetryConnection(logger Logger, cfg Config) {
outerLoop:
	for {
		errChan := make(chan *amqp.Error, 1)
		rb.conn.NotifyClose(errChan)

		select {
		case <-rb.shutdownSignal:
			logger.Info("Stopping RetryConnection loop due to shutdown signal", nil, nil)
			return

		case err := <-errChan:
			logger.Warn("RabbitMQ connection closed, retrying...", err, nil)
		reconnectLoop:
			for {
				select {
				case <-rb.shutdownSignal:
					logger.Info("Stopping RetryConnection loop due to shutdown signal inside reconnect", nil, nil)
					return
				default:
					newConn, err := newConnection(cfg, logger)
					if err != nil {
						logger.Error("Reconnection failed", err, nil)
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					rb.mu.Lock()
					rb.conn = newConn
					if rb.Channel != nil {
						_ = rb.Channel.Close()
					}
					rb.Channel, err = connectToChannel(newConn, cfg, logger)
					rb.mu.Unlock()

					if err != nil {
						logger.Error("Failed to reopen channel, retrying...", err, nil)
						continue reconnectLoop
					}

					logger.Info("Reconnected to RabbitMQ", nil, nil)
					continue outerLoop
				}
			}
		}
	}
}

// newConnection dials the broker, optionally over TLS with client
// certificates. All connections use a 2 second heartbeat so dead peers are
// noticed quickly.
func newConnection(cfg Config, logger Logger) (*amqp.Connection, error) {
	logger.Info("Connecting to Rabbit", nil, nil)

	scheme := "amqp"
	if cfg.Connection.IsSSLEnabled {
		scheme = "amqps"
	}
	hostURL := fmt.Sprintf("%v://%v:%v@%v:%v", scheme, cfg.Connection.User, cfg.Connection.Password, cfg.Connection.Host, cfg.Connection.Port)

	amqpConfig := amqp.Config{Heartbeat: 2 * time.Second}
	if cfg.Connection.IsSSLEnabled && cfg.Connection.UseCert {
		tlsConfig, err := clientTLSConfig(cfg.Connection, logger)
		if err != nil {
			return nil, err
		}
		amqpConfig.TLSClientConfig = tlsConfig
	}

	conn, err := amqp.DialConfig(hostURL, amqpConfig)
	if err != nil {
		logger.Error("error in connecting to rabbit", nil, map[string]interface{}{
			"rabbit_addr": hostURL,
			"error":       err,
		})
		return nil, fmt.Errorf("failed to connect to Rabbit")
	}

	logger.Info("Connected to Rabbit", nil, map[string]interface{}{
		"rabbit_addr": hostURL,
	})
	return conn, nil
}

// clientTLSConfig builds the mutual-TLS configuration from the cert paths in
// cfg.
func clientTLSConfig(cfg Connection, logger Logger) (*tls.Config, error) {
	caCert, err := os.ReadFile(cfg.CACertPath)
	if err != nil {
		logger.Error("failed to read CA certificate", err, nil)
		return nil, err
	}
	caCertPool := x509.NewCertPool()
	caCertPool.AppendCertsFromPEM(caCert)

	cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
	if err != nil {
		logger.Error("failed to load client cert/key", err, nil)
		return nil, err
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{cert},
		ServerName:   cfg.ServerName,
	}, nil
}
