package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/logistics/internal/domain/finance"
	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/menu"
	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/schedule"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func TestMenuCodeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMenuCodeRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	code, err := menu.NewMenuCode(tenantID, "pur-001", "Purchase Requests", "/purchasing/requests", menu.SectionPurchasing, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, code))

	t.Run("finds by normalized code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, tenantID, " pur-001 ")
		require.NoError(t, err)
		assert.Equal(t, code.ID, found.ID)
		assert.Equal(t, 1, found.PersistedVersion())
	})

	t.Run("duplicate insert is reported as already exists", func(t *testing.T) {
		dup, err := menu.NewMenuCode(tenantID, "PUR-001", "Other", "/other", menu.SectionPurchasing, 2)
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeAlreadyExists))
	})

	t.Run("soft deleted codes are hidden from lists", func(t *testing.T) {
		other, err := menu.NewMenuCode(tenantID, "PUR-002", "Orders", "/purchasing/orders", menu.SectionPurchasing, 2)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, other))
		other.SoftDelete()
		require.NoError(t, repo.SaveWithLock(ctx, other))

		list, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "PUR-001", list[0].Code)

		all, err := repo.CountForTenant(ctx, tenantID, shared.Filter{IncludeInactive: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), all)

		exists, err := repo.ExistsByCode(ctx, tenantID, "pur-002")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		first, err := repo.FindByIDForTenant(ctx, tenantID, code.ID)
		require.NoError(t, err)
		second, err := repo.FindByIDForTenant(ctx, tenantID, code.ID)
		require.NoError(t, err)

		require.NoError(t, first.Update("Requests", "/purchasing/requests", menu.SectionPurchasing, 1, "", ""))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.Update("Stale", "/purchasing/requests", menu.SectionPurchasing, 1, "", ""))
		err = repo.SaveWithLock(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("other tenants see nothing", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), code.ID)
		assert.True(t, shared.HasCode(err, shared.CodeNotFound))
	})
}

func TestAccountPayableRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountPayableRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	number, err := repo.GenerateAPNumber(ctx, tenantID, day)
	require.NoError(t, err)
	assert.Equal(t, "AP-20240105-0001", number)

	due := day.AddDate(0, 0, 10)
	ap, err := finance.NewAccountPayable(tenantID, number, uuid.New(), "Acme Supply", decimal.NewFromInt(1000), &due)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ap))

	next, err := repo.GenerateAPNumber(ctx, tenantID, day)
	require.NoError(t, err)
	assert.Equal(t, "AP-20240105-0002", next)

	t.Run("payments are appended and reloaded", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, tenantID, ap.ID)
		require.NoError(t, err)
		_, err = loaded.Pay(finance.PaymentInput{Amount: decimal.NewFromInt(400)})
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		_, err = loaded.Pay(finance.PaymentInput{Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		again, err := repo.FindByIDForTenant(ctx, tenantID, ap.ID)
		require.NoError(t, err)
		assert.Len(t, again.Payments, 2)
		assert.True(t, again.PaidAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, again.RemainingAmount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, finance.PaymentStatusPartial, again.PaymentStatus)
	})

	t.Run("overdue and summary", func(t *testing.T) {
		overdue, err := repo.FindOverdue(ctx, tenantID, due.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, overdue, 1)

		notYet, err := repo.FindOverdue(ctx, tenantID, day)
		require.NoError(t, err)
		assert.Empty(t, notYet)

		summary, err := repo.SummarizeByStatus(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, summary, 1)
		assert.Equal(t, finance.PaymentStatusPartial, summary[0].PaymentStatus)
		assert.Equal(t, int64(1), summary[0].Count)
		assert.True(t, summary[0].RemainingAmount.Equal(decimal.NewFromInt(500)))
	})
}

func TestRackInventoryRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	racks := NewGormRackMasterRepository(db)
	parts := NewGormPartMasterRepository(db)
	inventory := NewGormRackInventoryRepository(db)

	rack, err := wms.NewRackMaster(tenantID, "R-01", "Rack 1", uuid.New(), wms.RackLayout{Rows: 2, Columns: 2, Levels: 1})
	require.NoError(t, err)
	require.NoError(t, racks.Save(ctx, rack))

	part, err := wms.NewPartMaster(tenantID, "P-100", wms.PartAttributes{
		PartName:    "Bearing",
		Unit:        "EA",
		SafetyStock: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	require.NoError(t, parts.Save(ctx, part))

	t.Run("stores within a transaction", func(t *testing.T) {
		err := inventory.Transaction(ctx, func(tx wms.InventoryTx) error {
			r, err := tx.Racks().FindByIDForTenant(ctx, tenantID, rack.ID)
			if err != nil {
				return err
			}
			if err := r.Occupy(1); err != nil {
				return err
			}
			if err := tx.Racks().SaveWithLock(ctx, r); err != nil {
				return err
			}
			rec, err := wms.NewRackInventory(tenantID, r, "A-01-01", part, decimal.NewFromInt(20), "LOT1")
			if err != nil {
				return err
			}
			return tx.Inventory().Save(ctx, rec)
		})
		require.NoError(t, err)

		occupied, err := inventory.IsSlotOccupied(ctx, tenantID, rack.ID, "A-01-01", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, occupied)

		reloaded, err := racks.FindByIDForTenant(ctx, tenantID, rack.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, reloaded.UsedCapacity)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		err := inventory.Transaction(ctx, func(tx wms.InventoryTx) error {
			rec, err := wms.NewRackInventory(tenantID, rack, "A-01-02", part, decimal.NewFromInt(5), "LOT2")
			if err != nil {
				return err
			}
			if err := tx.Inventory().Save(ctx, rec); err != nil {
				return err
			}
			return shared.NewStateError("abort")
		})
		require.Error(t, err)

		occupied, err := inventory.IsSlotOccupied(ctx, tenantID, rack.ID, "A-01-02", uuid.Nil)
		require.NoError(t, err)
		assert.False(t, occupied)
	})

	t.Run("sums stock by part", func(t *testing.T) {
		stock, err := inventory.SumByPart(ctx, tenantID, nil)
		require.NoError(t, err)
		require.Len(t, stock, 1)
		assert.Equal(t, "P-100", stock[0].PartCode)
		assert.True(t, stock[0].Quantity.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, int64(1), stock[0].RackCount)
		assert.True(t, stock[0].IsLow())
	})

	t.Run("low stock includes parts with nothing stored", func(t *testing.T) {
		unstocked, err := wms.NewPartMaster(tenantID, "P-ZERO", wms.PartAttributes{
			PartName:    "Seal",
			Unit:        "EA",
			SafetyStock: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		require.NoError(t, parts.Save(ctx, unstocked))

		untracked, err := wms.NewPartMaster(tenantID, "P-NONE", wms.PartAttributes{PartName: "Bolt", Unit: "EA"})
		require.NoError(t, err)
		require.NoError(t, parts.Save(ctx, untracked))

		retired, err := wms.NewPartMaster(tenantID, "P-OLD", wms.PartAttributes{
			PartName:    "Gear",
			Unit:        "EA",
			SafetyStock: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		retired.SoftDelete()
		require.NoError(t, parts.Save(ctx, retired))

		low, err := inventory.LowStock(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, low, 2)
		assert.Equal(t, "P-100", low[0].PartCode)
		assert.True(t, low[0].Quantity.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, "P-ZERO", low[1].PartCode)
		assert.True(t, low[1].Quantity.IsZero())
		assert.Equal(t, int64(0), low[1].RackCount)
		assert.True(t, low[1].SafetyStock.Equal(decimal.NewFromInt(10)))
	})

	t.Run("finds slot lot", func(t *testing.T) {
		rec, err := inventory.FindSlotLot(ctx, tenantID, rack.ID, "A-01-01", part.ID, "LOT1")
		require.NoError(t, err)
		assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(20)))

		_, err = inventory.FindSlotLot(ctx, tenantID, rack.ID, "A-01-01", part.ID, "NOPE")
		assert.True(t, shared.HasCode(err, shared.CodeNotFound))
	})
}

func TestPurchaseRequestRepository_ConvertTransaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	requests := NewGormPurchaseRequestRepository(db)
	orders := NewGormPurchaseOrderRepository(db)

	approved := func(t *testing.T, number string) *purchasing.PurchaseRequest {
		t.Helper()
		pr, err := purchasing.NewPurchaseRequest(tenantID, number, "Kim", "Maintenance")
		require.NoError(t, err)
		_, err = pr.AddItem(purchasing.LineInput{PartName: "Bearing", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(25)})
		require.NoError(t, err)
		require.NoError(t, pr.Submit())
		require.NoError(t, pr.Approve(uuid.New()))
		require.NoError(t, requests.Save(ctx, pr))
		return pr
	}

	convert := func(pr *purchasing.PurchaseRequest, poNumber string) error {
		po, err := purchasing.NewPurchaseOrderFromRequest(pr, poNumber, uuid.New(), "Acme")
		if err != nil {
			return err
		}
		if err := pr.MarkConverted(po.ID); err != nil {
			return err
		}
		return requests.Transaction(ctx, func(tx purchasing.PurchasingTx) error {
			if err := tx.PurchaseOrders().Save(ctx, po); err != nil {
				return err
			}
			return tx.PurchaseRequests().SaveWithLock(ctx, pr)
		})
	}

	t.Run("order and request commit together", func(t *testing.T) {
		pr := approved(t, "PR-20240105-0001")
		require.NoError(t, convert(pr, "PO-20240105-0001"))

		po, err := orders.FindByNumber(ctx, tenantID, "PO-20240105-0001")
		require.NoError(t, err)
		reloaded, err := requests.FindByIDForTenant(ctx, tenantID, pr.ID)
		require.NoError(t, err)
		assert.Equal(t, purchasing.PurchaseRequestStatusConverted, reloaded.Status)
		assert.Equal(t, &po.ID, reloaded.PurchaseOrderID)
	})

	t.Run("stale request leaves no order behind", func(t *testing.T) {
		pr := approved(t, "PR-20240105-0002")
		stale, err := requests.FindByIDForTenant(ctx, tenantID, pr.ID)
		require.NoError(t, err)

		require.NoError(t, convert(pr, "PO-20240105-0002"))
		err = convert(stale, "PO-20240105-0003")
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		_, err = orders.FindByNumber(ctx, tenantID, "PO-20240105-0003")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		count, err := orders.CountForTenant(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	tenantA, tenantB, tenantC := uuid.New(), uuid.New(), uuid.New()

	for _, tc := range []struct {
		tenant   uuid.UUID
		username string
		active   bool
	}{
		{tenantA, "alice", true},
		{tenantA, "bob", true},
		{tenantB, "carol", true},
		{tenantC, "dave", false},
	} {
		u, err := identity.NewUser(tc.tenant, tc.username, "s3cretpass", "", identity.RoleStaff)
		require.NoError(t, err)
		if !tc.active {
			u.SoftDelete()
		}
		require.NoError(t, repo.Save(ctx, u))
	}

	found, err := repo.FindByUsername(ctx, tenantA, " Alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	ids, err := repo.ActiveTenantIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{tenantA, tenantB}, ids)
}

func TestScheduleRepository_FindInRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormScheduleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mk := func(title string, start time.Time, hours int) *schedule.Schedule {
		s, err := schedule.NewSchedule(tenantID, schedule.Entry{
			Title:     title,
			Category:  schedule.CategoryCompany,
			StartDate: start,
			EndDate:   start.Add(time.Duration(hours) * time.Hour),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, s))
		return s
	}
	a := mk("standup", base, 1)
	mk("review", base.Add(2*time.Hour), 1)
	mk("next week", base.AddDate(0, 0, 7), 1)

	found, err := repo.FindInRange(ctx, tenantID, schedule.RangeQuery{From: base, To: base.Add(3 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "standup", found[0].Title)

	found, err = repo.FindInRange(ctx, tenantID, schedule.RangeQuery{From: base, To: base.Add(3 * time.Hour), ExcludeID: &a.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "review", found[0].Title)
}

func TestPersist_ConcurrencyConflictOnPostgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	code, err := menu.NewMenuCode(uuid.New(), "SYS-001", "Users", "/system/users", menu.SectionSystem, 1)
	require.NoError(t, err)
	code.MarkPersisted()
	code.SoftDelete()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "menu_codes"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "menu_codes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err = NewGormMenuCodeRepository(db).SaveWithLock(context.Background(), code)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
