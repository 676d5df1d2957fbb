package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountReceivable_Collect(t *testing.T) {
	ar, err := NewAccountReceivable(uuid.New(), "AR-20240105-0001", uuid.New(), "Daesung Logistics", decimal.NewFromFloat(250.50), nil)
	require.NoError(t, err)

	orderID := uuid.New()
	ar.LinkSalesOrder(orderID, "SO-20240105-0001", nil)
	assert.Equal(t, orderID, *ar.SalesOrderID)

	_, err = ar.Collect(PaymentInput{Amount: decimal.NewFromFloat(0.50)})
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPartial, ar.PaymentStatus)

	_, err = ar.Collect(PaymentInput{Amount: decimal.NewFromInt(251)})
	assert.Error(t, err)

	_, err = ar.Collect(PaymentInput{Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, ar.PaymentStatus)
	assert.Equal(t, DocumentStatusClosed, ar.Status)
}

func TestLedger_RecomputeMatchesPayments(t *testing.T) {
	l, err := newLedger(decimal.NewFromInt(90), nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := l.apply(PaymentInput{Amount: decimal.NewFromInt(30)})
		require.NoError(t, err)
		assert.True(t, l.PaidAmount.Add(l.RemainingAmount).Equal(l.TotalAmount))
	}
	assert.Equal(t, PaymentStatusPaid, l.PaymentStatus)
}
