package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestOrderAdvance(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("processing to shipped to delivered", func(t *testing.T) {
		o := &domain.Order{Status: domain.StatusProcessing}
		require.NoError(t, o.Advance(domain.StatusShipped, at))
		require.NotNil(t, o.ShippedDate)
		assert.Equal(t, at, *o.ShippedDate)

		require.NoError(t, o.Advance(domain.StatusDelivered, at.Add(time.Hour)))
		assert.Equal(t, domain.StatusDelivered, o.Status)
		require.NotNil(t, o.DeliveredDate)
		assert.Nil(t, o.CancelledDate)
	})

	t.Run("cancel while shipped", func(t *testing.T) {
		o := &domain.Order{Status: domain.StatusShipped}
		require.NoError(t, o.Advance(domain.StatusCancelled, at))
		require.NotNil(t, o.CancelledDate)
	})

	t.Run("terminal statuses", func(t *testing.T) {
		for _, s := range []domain.OrderStatus{domain.StatusDelivered, domain.StatusCancelled} {
			o := &domain.Order{Status: s}
			assert.ErrorIs(t, o.Advance(domain.StatusShipped, at), domain.ErrIllegalTransition)
			assert.Equal(t, s, o.Status)
		}
	})

	t.Run("skipping shipped", func(t *testing.T) {
		o := &domain.Order{Status: domain.StatusProcessing}
		assert.ErrorIs(t, o.Advance(domain.StatusDelivered, at), domain.ErrIllegalTransition)
		assert.Equal(t, domain.StatusProcessing, o.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		o := &domain.Order{Status: domain.StatusProcessing}
		assert.ErrorIs(t, o.Advance("Lost", at), domain.ErrInvalidStatus)
	})
}

func TestOrderValidate(t *testing.T) {
	ok := domain.Order{
		ID:            domain.NewID(),
		CustomerID:    domain.NewID(),
		Products:      []domain.LineItem{{Name: "Widget", Quantity: 1, Price: 2}},
		Status:        domain.StatusProcessing,
		PaymentStatus: domain.PaymentPending,
	}
	require.NoError(t, ok.Validate())

	noCustomer := ok
	noCustomer.CustomerID = ""
	assert.True(t, domain.IsValidation(noCustomer.Validate()))

	badItem := ok
	badItem.Products = []domain.LineItem{{Name: "Widget", Quantity: 0, Price: 2}}
	assert.True(t, domain.IsValidation(badItem.Validate()))

	badPayment := ok
	badPayment.PaymentStatus = "Refunded"
	assert.True(t, domain.IsValidation(badPayment.Validate()))
}

func TestAvailabilityOf(t *testing.T) {
	cases := []struct {
		qty       int
		available bool
		want      string
	}{
		{qty: 6, available: true, want: "IN_STOCK"},
		{qty: 5, available: true, want: "IN_STOCK"},
		{qty: 2, available: true, want: "LOW_STOCK"},
		{qty: 0, available: true, want: "OUT_OF_STOCK"},
		{qty: 9, available: false, want: "OUT_OF_STOCK"},
	}
	for _, tc := range cases {
		p := &domain.Product{IsAvailable: tc.available, Inventory: domain.Inventory{Quantity: tc.qty}}
		a := domain.AvailabilityOf(p)
		assert.Equal(t, tc.want, a.Status, "qty=%d available=%v", tc.qty, tc.available)
		assert.Equal(t, tc.qty, a.Qty)
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, domain.ValidID(domain.NewID()))
	assert.False(t, domain.ValidID("gbc-001"))
	assert.False(t, domain.ValidID(""))
}
