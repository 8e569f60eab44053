package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ascribe/spool-engine/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain connects to TEST_DB_HOST when set (CI, local postgres),
// otherwise starts a throwaway container.
func TestMain(m *testing.M) {
	ctx := context.Background()

	dsn, err := resolveTestDSN(ctx)
	if err != nil {
		fmt.Printf("Failed to provision test database: %v\n", err)
		terminateContainer(ctx)
		os.Exit(1)
	}

	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		terminateContainer(ctx)
		os.Exit(1)
	}

	if err := AutoMigrate(testDB); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		terminateContainer(ctx)
		os.Exit(1)
	}

	code := m.Run()
	terminateContainer(ctx)
	os.Exit(code)
}

func resolveTestDSN(ctx context.Context) (string, error) {
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		port := envOr("TEST_DB_PORT", "5432")
		user := envOr("TEST_DB_USER", "postgres")
		password := envOr("TEST_DB_PASSWORD", "postgres")
		name := envOr("TEST_DB_NAME", "test_db")
		fmt.Printf("Using external database: %s:%s/%s\n", host, port, name)
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, name), nil
	}

	var err error
	pgContainer, err = postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	fmt.Printf("Started PostgreSQL container\n")
	return pgContainer.ConnectionString(ctx, "sslmode=disable")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func terminateContainer(ctx context.Context) {
	if pgContainer == nil {
		return
	}
	if err := pgContainer.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
	}
}

// initPGTestDB hands each test a store over its own transaction, rolled
// back on cleanup, so tests never see each other's rows.
func initPGTestDB(t *testing.T) Store {
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

// cleanupPGTestDB is a no-op; isolation comes from the rollback above.
func cleanupPGTestDB(t *testing.T) {
}

func TestPostgreSQLStore(t *testing.T) {
	if testDB == nil {
		t.Fatal("Test database not initialized")
	}

	RunStoreTests(t, initPGTestDB, cleanupPGTestDB)
}

// TestSelectAndSpendUnspentsConcurrent drives the pool through the pooled
// connection, not a rollback transaction, so every draw takes its own
// transaction and the FOR UPDATE row locks actually contend.
func TestSelectAndSpendUnspentsConcurrent(t *testing.T) {
	if testDB == nil {
		t.Fatal("Test database not initialized")
	}

	const (
		fundingAddress = "1ConcurrentDrawFundingAddr"
		workers        = 8
	)

	ctx := context.Background()
	st := NewPGStore(testDB)

	outputs := make([]schema.UnspentOutput, 0, workers)
	for vout := 0; vout < workers; vout++ {
		outputs = append(outputs, schema.UnspentOutput{
			TxHash:  "f7a2e0c4d6b8f7a2e0c4d6b8",
			Vout:    uint32(vout),
			Amount:  3000,
			Address: fundingAddress,
		})
	}
	require.NoError(t, st.ImportUnspentOutputs(ctx, outputs))
	t.Cleanup(func() {
		testDB.Where("address = ?", fundingAddress).Delete(&schema.UnspentOutput{})
	})

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		picked = make(map[uint64]uint64)
	)
	for i := 0; i < workers; i++ {
		spendingTxID := uint64(9000 + i)
		wg.Add(1)
		go func() {
			defer wg.Done()

			got, err := st.SelectAndSpendUnspents(ctx, fundingAddress, []int64{3000}, spendingTxID)
			if err != nil {
				t.Errorf("draw for tx %d: %v", spendingTxID, err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			for _, output := range got {
				if prev, dup := picked[output.ID]; dup {
					t.Errorf("output %d handed to both tx %d and tx %d", output.ID, prev, spendingTxID)
				}
				picked[output.ID] = spendingTxID
			}
		}()
	}
	wg.Wait()

	// Every worker got exactly one output and no output went out twice
	require.Len(t, picked, workers)
}
