package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/syara/internal/migrations"
	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/storage"
)

const pgPort = nat.Port("5432/tcp")

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции проекта.
func setupTestDatabase(t *testing.T) (*storage.Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{string(pgPort)},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(pgPort),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, pgPort)
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var st *storage.Storage
	for range 10 {
		st, err = storage.New(ctx, connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(st.DB, migrationsPath))

	cleanup := func() {
		_ = st.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return st, cleanup
}

// testDataFactory вставляет тестовые данные напрямую через SQL.
type testDataFactory struct {
	db storage.DBTX
}

func newTestDataFactory(st *storage.Storage) *testDataFactory {
	return &testDataFactory{db: st.DB}
}

func (f *testDataFactory) createUser(t *testing.T, username, email string, active bool) int64 {
	t.Helper()
	var id int64
	err := f.db.QueryRowContext(context.Background(),
		`INSERT INTO users (username, email, hashed_password, is_active) VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, "hashed-"+username, active).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) createCar(t *testing.T, brand, model string) int64 {
	t.Helper()
	c := testCar(brand, model)
	created, err := NewCars(f.db).Create(context.Background(), c)
	require.NoError(t, err)
	return created.ID
}

func testCar(brand, model string) models.Car {
	return models.Car{
		Brand:            brand,
		Model:            model,
		Year:             2020,
		BodyType:         "sedan",
		EngineType:       "petrol",
		EngineSizeLiters: 2.0,
		HorsePower:       180,
		Transmission:     "automatic",
		FuelType:         "gasoline",
		MileageKm:        15000,
		TopSpeedKmh:      220,
		Color:            "black",
		Features:         "leather,navigation",
		PriceUSD:         25000,
		DiscountPercent:  5,
		NumInStock:       3,
		Description:      "test car",
	}
}

func countRows(t *testing.T, db storage.DBTX, table string) int {
	t.Helper()
	var n int
	err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}
