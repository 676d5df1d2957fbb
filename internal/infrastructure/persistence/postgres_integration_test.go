//go:build integration

package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/erp/logistics/internal/domain/finance"
	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/menu"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/migration"
	"github.com/erp/logistics/migrations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway PostgreSQL container and applies the
// embedded migrations to it.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("erp_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	m, err := migration.NewFromFS(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestPostgres_Repositories(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("menu code uniqueness and soft delete", func(t *testing.T) {
		repo := NewGormMenuCodeRepository(db)
		code, err := menu.NewMenuCode(tenantID, "wms-010", "Racks", "/wms/racks", menu.SectionWarehouse, 10)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, code))

		dup, err := menu.NewMenuCode(tenantID, "WMS-010", "Racks again", "/wms/racks", menu.SectionWarehouse, 11)
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeAlreadyExists))

		code.SoftDelete()
		require.NoError(t, repo.SaveWithLock(ctx, code))
		active, err := repo.FindActive(ctx, tenantID)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("payable payments and overdue", func(t *testing.T) {
		repo := NewGormAccountPayableRepository(db)
		day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		number, err := repo.GenerateAPNumber(ctx, tenantID, day)
		require.NoError(t, err)

		due := day.AddDate(0, 0, 30)
		ap, err := finance.NewAccountPayable(tenantID, number, uuid.New(), "Acme Supply", decimal.NewFromInt(250), &due)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, ap))

		loaded, err := repo.FindByIDForTenant(ctx, tenantID, ap.ID)
		require.NoError(t, err)
		_, err = loaded.Pay(finance.PaymentInput{Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		again, err := repo.FindByIDForTenant(ctx, tenantID, ap.ID)
		require.NoError(t, err)
		assert.Len(t, again.Payments, 1)
		assert.True(t, again.RemainingAmount.Equal(decimal.NewFromInt(150)))

		overdue, err := repo.FindOverdue(ctx, tenantID, due.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Len(t, overdue, 1)
	})

	t.Run("active tenants", func(t *testing.T) {
		repo := NewGormUserRepository(db)
		u, err := identity.NewUser(tenantID, "ops", "s3cretpass", "Ops", identity.RoleStaff)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, u))

		ids, err := repo.ActiveTenantIDs(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, tenantID)
	})
}
