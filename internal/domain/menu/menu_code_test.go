package menu

import (
	"testing"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMenuCode(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active code and upper-cases it", func(t *testing.T) {
		m, err := NewMenuCode(tenantID, " po_list ", "Purchase Orders", "/purchasing/orders", SectionPurchasing, 10)
		require.NoError(t, err)
		assert.Equal(t, "PO_LIST", m.Code)
		assert.True(t, m.IsActive)
		assert.Equal(t, 1, m.Version)
		assert.Equal(t, tenantID, m.TenantID)
	})

	tests := []struct {
		name    string
		code    string
		label   string
		path    string
		section Section
		order   int
	}{
		{"empty code", "", "Name", "/x", SectionSales, 0},
		{"code with spaces", "A B", "Name", "/x", SectionSales, 0},
		{"empty name", "A", "  ", "/x", SectionSales, 0},
		{"relative path", "A", "Name", "x", SectionSales, 0},
		{"unknown section", "A", "Name", "/x", Section("hr"), 0},
		{"negative order", "A", "Name", "/x", SectionSales, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMenuCode(tenantID, tt.code, tt.label, tt.path, tt.section, tt.order)
			require.Error(t, err)
			assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
		})
	}
}

func TestMenuCode_SoftDeleteAndRestore(t *testing.T) {
	m, err := NewMenuCode(uuid.New(), "AP", "Payables", "/accounting/ap", SectionAccounting, 1)
	require.NoError(t, err)

	m.SoftDelete()
	assert.False(t, m.IsActive)
	assert.Equal(t, 2, m.Version)

	m.SoftDelete()
	assert.Equal(t, 2, m.Version, "second delete is a no-op")

	m.Restore()
	assert.True(t, m.IsActive)
	assert.Equal(t, 3, m.Version)
}

func TestMenuCode_Update(t *testing.T) {
	m, err := NewMenuCode(uuid.New(), "AP", "Payables", "/accounting/ap", SectionAccounting, 1)
	require.NoError(t, err)

	require.NoError(t, m.Update("Accounts Payable", "/ap", SectionAccounting, 5, "wallet", "accounting"))
	assert.Equal(t, "Accounts Payable", m.Name)
	assert.Equal(t, "ACCOUNTING", m.ParentCode)
	assert.Equal(t, 5, m.Order)

	err = m.Update("X", "/x", SectionAccounting, 1, "", "ap")
	assert.Error(t, err)
}

func TestBuildNavigation(t *testing.T) {
	tenantID := uuid.New()
	mk := func(code string, section Section, order int) MenuCode {
		m, err := NewMenuCode(tenantID, code, code, "/"+code, section, order)
		require.NoError(t, err)
		return *m
	}
	hidden := mk("HIDDEN", SectionDashboard, 0)
	hidden.SoftDelete()

	groups := BuildNavigation([]MenuCode{
		mk("RACKS", SectionWarehouse, 2),
		mk("PARTS", SectionWarehouse, 1),
		mk("SO", SectionSales, 1),
		mk("LOCS", SectionWarehouse, 1),
		hidden,
	})

	require.Len(t, groups, 2)
	assert.Equal(t, SectionSales, groups[0].Section)
	assert.Equal(t, SectionWarehouse, groups[1].Section)
	codes := []string{}
	for _, item := range groups[1].Items {
		codes = append(codes, item.Code)
	}
	assert.Equal(t, []string{"LOCS", "PARTS", "RACKS"}, codes)
}
