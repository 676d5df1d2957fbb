package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartner(t *testing.T) {
	p, err := NewPartner(uuid.New(), "sup-01", "Hanil Steel", PartnerTypeSupplier)
	require.NoError(t, err)
	assert.Equal(t, "SUP-01", p.Code)
	assert.True(t, p.IsSupplier())
	assert.False(t, p.IsCustomer())
	assert.True(t, p.IsActive)

	_, err = NewPartner(uuid.New(), "", "x", PartnerTypeSupplier)
	assert.Error(t, err)
	_, err = NewPartner(uuid.New(), "A", "x", PartnerType("vendor"))
	assert.Error(t, err)
}

func TestPartner_Update(t *testing.T) {
	p, err := NewPartner(uuid.New(), "C1", "Customer", PartnerTypeCustomer)
	require.NoError(t, err)

	err = p.Update("Customer & Supplier", PartnerTypeBoth, ContactInfo{Email: "ops@example.com", Phone: " 010 "})
	require.NoError(t, err)
	assert.True(t, p.IsSupplier())
	assert.True(t, p.IsCustomer())
	assert.Equal(t, "010", p.Phone)
	assert.Equal(t, 2, p.Version)

	err = p.Update("X", PartnerTypeBoth, ContactInfo{Email: "not-an-email"})
	assert.Error(t, err)
}
