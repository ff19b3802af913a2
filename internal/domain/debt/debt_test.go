package debt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail-cash-ledger/internal/domain/shared"
)

func TestNewDebt(t *testing.T) {
	customerID := uuid.New()

	t.Run("valid debt starts vigente with full remaining", func(t *testing.T) {
		d, err := NewDebt(1, customerID, decimal.RequireFromString("500.00"), "two handsets")
		require.NoError(t, err)
		assert.Equal(t, shared.DebtStatusVigente, d.Status)
		assert.True(t, d.RemainingAmount.Equal(d.OriginalAmount))
		assert.NotEqual(t, uuid.Nil, d.ID)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewDebt(1, customerID, decimal.Zero, "")
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects missing customer", func(t *testing.T) {
		_, err := NewDebt(1, uuid.Nil, decimal.NewFromInt(100), "")
		assert.ErrorIs(t, err, ErrMissingCustomer)
	})

	t.Run("rejects bad client id", func(t *testing.T) {
		_, err := NewDebt(0, customerID, decimal.NewFromInt(100), "")
		assert.ErrorIs(t, err, shared.ErrInvalidClientID)
	})
}

func TestCustomerDebt_ApplyPayment(t *testing.T) {
	newDebt := func(t *testing.T, original string) *CustomerDebt {
		d, err := NewDebt(1, uuid.New(), decimal.RequireFromString(original), "")
		require.NoError(t, err)
		return d
	}

	t.Run("partial payment reduces remaining", func(t *testing.T) {
		d := newDebt(t, "500.00")
		excess, err := d.ApplyPayment(decimal.RequireFromString("200.00"))
		require.NoError(t, err)
		assert.True(t, excess.IsZero())
		assert.Equal(t, "300", d.RemainingAmount.String())
		assert.Equal(t, shared.DebtStatusVigente, d.Status)
	})

	t.Run("exact payoff flips status to pagada", func(t *testing.T) {
		d := newDebt(t, "500.00")
		excess, err := d.ApplyPayment(decimal.RequireFromString("500.00"))
		require.NoError(t, err)
		assert.True(t, excess.IsZero())
		assert.True(t, d.RemainingAmount.IsZero())
		assert.Equal(t, shared.DebtStatusPagada, d.Status)
	})

	t.Run("overpayment clamps at zero and reports excess", func(t *testing.T) {
		// 500 debt, 200 then 400: remaining ends at 0, not -100
		d := newDebt(t, "500.00")

		excess, err := d.ApplyPayment(decimal.RequireFromString("200.00"))
		require.NoError(t, err)
		assert.True(t, excess.IsZero())

		excess, err = d.ApplyPayment(decimal.RequireFromString("400.00"))
		require.NoError(t, err)
		assert.Equal(t, "100", excess.String())
		assert.True(t, d.RemainingAmount.IsZero())
		assert.Equal(t, shared.DebtStatusPagada, d.Status)
	})

	t.Run("paid debt rejects further payments", func(t *testing.T) {
		d := newDebt(t, "100.00")
		_, err := d.ApplyPayment(decimal.RequireFromString("100.00"))
		require.NoError(t, err)

		_, err = d.ApplyPayment(decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrDebtClosed)
	})

	t.Run("rejects non-positive payment", func(t *testing.T) {
		d := newDebt(t, "100.00")
		_, err := d.ApplyPayment(decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})
}

func TestCustomerDebt_Cancel(t *testing.T) {
	t.Run("vigente debt cancels", func(t *testing.T) {
		d, err := NewDebt(1, uuid.New(), decimal.NewFromInt(100), "")
		require.NoError(t, err)
		require.NoError(t, d.Cancel())
		assert.Equal(t, shared.DebtStatusCancelada, d.Status)
	})

	t.Run("cancel is not reachable from terminal states", func(t *testing.T) {
		d, err := NewDebt(1, uuid.New(), decimal.NewFromInt(100), "")
		require.NoError(t, err)
		_, err = d.ApplyPayment(decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.ErrorIs(t, d.Cancel(), ErrDebtClosed)
		assert.Equal(t, shared.DebtStatusPagada, d.Status)
	})

	t.Run("cancelled debt rejects payments", func(t *testing.T) {
		d, err := NewDebt(1, uuid.New(), decimal.NewFromInt(100), "")
		require.NoError(t, err)
		require.NoError(t, d.Cancel())

		_, err = d.ApplyPayment(decimal.NewFromInt(50))
		assert.ErrorIs(t, err, ErrDebtClosed)
	})
}

func TestNewPayment(t *testing.T) {
	d, err := NewDebt(1, uuid.New(), decimal.NewFromInt(100), "")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		p, err := NewPayment(d.ID, d.ClientID, decimal.NewFromInt(40), d.CreatedAt, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, d.ID, p.DebtID)
	})

	t.Run("rejects missing user", func(t *testing.T) {
		_, err := NewPayment(d.ID, d.ClientID, decimal.NewFromInt(40), d.CreatedAt, uuid.Nil)
		assert.Error(t, err)
	})
}
