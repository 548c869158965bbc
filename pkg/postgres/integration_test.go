package postgres

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"database/sql"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/traceably/spanwrap/pkg/tracing"
)

// TestUser is a sample model for testing GORM operations
type TestUser struct {
	gorm.Model
	Name  string
	Email string
	Age   int
}

// PostgresContainer represents a Postgres container for testing
type PostgresContainer struct {
	testcontainers.Container
	ConnectionString string
	Config           Config
	Host             string
	Port             string
}

// setupPostgresContainer sets up a Postgres container for testing
func setupPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	// Get a random free port
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"5432/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		ExposedPorts: []string{"5432/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	// Double-check port mapping (could be different from requested)
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	portStr = mappedPort.Port()

	// Wait for PostgreSQL to be fully ready for connections
	err = waitForPostgresReady(host, portStr, "testuser", "testpass", "testdb", 30*time.Second)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("postgres container not ready: %w", err)
	}

	config := Config{
		Connection: Connection{
			Host:     host,
			Port:     portStr,
			User:     "testuser",
			Password: "testpass",
			DbName:   "testdb",
			SSLMode:  "disable",
		},
	}

	return &PostgresContainer{
		Container:        container,
		ConnectionString: fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=testdb sslmode=disable", host, portStr),
		Config:           config,
		Host:             host,
		Port:             portStr,
	}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func(addr net.Listener) {
		err := addr.Close()
		if err != nil {
			fmt.Printf("Failed to close listener: %v", err)
		}
	}(addr)

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// waitForPostgresReady polls the database until a connection and ping succeed
func waitForPostgresReady(host, port, user, password, dbname string, timeout time.Duration) error {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	startTime := time.Now()
	for {
		if time.Since(startTime) > timeout {
			return fmt.Errorf("timed out waiting for PostgreSQL to be ready after %s", timeout)
		}

		db, err := sql.Open("postgres", connStr)
		if err != nil {
			time.Sleep(500 * time.Millisecond)
			continue
		}

		err = db.Ping()
		if err == nil {
			return db.Close()
		}

		_ = db.Close()
		time.Sleep(500 * time.Millisecond)
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

// TestPostgresWithFXModule exercises the postgres package end to end through
// the FX module, including the spans recorded around each operation.
func TestPostgresWithFXModule(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockLogger := NewMockLogger(ctrl)

	// Override Fatal to prevent test termination
	mockLogger.EXPECT().Fatal(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(msg string, err error, fields ...map[string]interface{}) {
			t.Logf("FATAL: %s, Error: %v", msg, err)
		}).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	t.Logf("Using PostgreSQL on %s:%s", container.Host, container.Port)

	recorder := tracing.NewRecorder()

	var postgres *Postgres
	app := fxtest.New(t,
		fx.Provide(
			func() Config {
				return container.Config
			},
			func() Logger {
				return mockLogger
			},
			func() *tracing.Runner {
				return tracing.NewRunner(recorder)
			},
		),
		FXModule,
		fx.Populate(&postgres),
	)

	err = app.Start(ctx)
	require.NoError(t, err)
	defer app.RequireStop()

	if postgres == nil || postgres.client == nil {
		t.Fatal("Failed to initialize Postgres client - connection likely failed")
	}

	db := postgres.DB()
	require.NotNil(t, db)

	var result int
	err = db.Raw("SELECT 1").Scan(&result).Error
	assert.NoError(t, err)
	assert.Equal(t, 1, result)

	err = db.AutoMigrate(&TestUser{})
	require.NoError(t, err)

	assert.NoError(t, postgres.HealthCheck())

	t.Run("CRUDOperations", func(t *testing.T) {
		ctx := context.Background()

		user := TestUser{
			Name:  "John Doe",
			Email: "john@example.com",
			Age:   30,
		}

		err := postgres.Create(ctx, &user)
		assert.NoError(t, err)
		assert.Greater(t, user.ID, uint(0))

		var users []TestUser
		err = postgres.Find(ctx, &users, "age = ?", 30)
		assert.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, "John Doe", users[0].Name)

		var retrievedUser TestUser
		err = postgres.First(ctx, &retrievedUser, "name = ?", "John Doe")
		assert.NoError(t, err)
		assert.Equal(t, "john@example.com", retrievedUser.Email)
		assert.Equal(t, 30, retrievedUser.Age)

		retrievedUser.Age = 31
		err = postgres.Save(ctx, &retrievedUser)
		assert.NoError(t, err)

		var updatedUser TestUser
		err = postgres.First(ctx, &updatedUser, retrievedUser.ID)
		assert.NoError(t, err)
		assert.Equal(t, 31, updatedUser.Age)

		err = postgres.Update(ctx, &updatedUser, map[string]interface{}{
			"Age": 32,
		})
		assert.NoError(t, err)

		err = postgres.First(ctx, &updatedUser, "name = ?", "John Doe")
		assert.NoError(t, err)
		assert.Equal(t, 32, updatedUser.Age)

		var count int64
		err = postgres.Count(ctx, &TestUser{}, &count, "age > ?", 30)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)

		err = postgres.Delete(ctx, &TestUser{}, "name = ?", "John Doe")
		assert.NoError(t, err)

		err = postgres.Count(ctx, &TestUser{}, &count, "name = ?", "John Doe")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("ExecRawSQL", func(t *testing.T) {
		ctx := context.Background()

		err := postgres.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS test_items (
				id SERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				value INTEGER
			)
		`)
		assert.NoError(t, err)

		err = postgres.Exec(ctx, `
			INSERT INTO test_items (name, value) VALUES ('item1', 100), ('item2', 200)
		`)
		assert.NoError(t, err)

		type Item struct {
			Name  string
			Value int
		}

		var items []Item
		err = postgres.DB().Raw(`SELECT name, value FROM test_items ORDER BY value`).Scan(&items).Error
		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "item1", items[0].Name)
		assert.Equal(t, 100, items[0].Value)
	})

	t.Run("ErrorTranslation", func(t *testing.T) {
		ctx := context.Background()

		var user TestUser
		err := postgres.First(ctx, &user, "name = ?", "NonExistentUser")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("SpansRecorded", func(t *testing.T) {
		spans := recorder.Spans()
		require.NotEmpty(t, spans)

		var okSeen, errSeen bool
		for _, span := range spans {
			assert.Equal(t, "db.query", span.Name())
			assert.Equal(t, 1, span.Ends())

			system, present := span.Attr(tracing.AttrDBSystem)
			assert.True(t, present)
			assert.Equal(t, "postgresql", system)

			set, ok, _ := span.Status()
			require.True(t, set)
			if ok {
				okSeen = true
			} else {
				errSeen = true
			}
		}
		assert.True(t, okSeen, "expected successful operations to record OK spans")
		assert.True(t, errSeen, "expected the failed lookup to record an error span")
	})
}
