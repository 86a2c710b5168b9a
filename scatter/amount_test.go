package scatter_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sepolia-scatter/scatter"
)

func TestFixedAmount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := scatter.FixedAmount(decimal.RequireFromString("0.0001"))

	for i := 0; i < 10; i++ {
		assert.True(t, p.Pick(rng).Equal(decimal.RequireFromString("0.0001")))
	}
}

func TestAmountRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	min := decimal.RequireFromString("0.0001")
	max := decimal.RequireFromString("0.0005")
	p := scatter.AmountRange(min, max)

	for i := 0; i < 1000; i++ {
		amount := p.Pick(rng)
		assert.True(t, amount.GreaterThanOrEqual(min), "amount %s below min", amount)
		assert.True(t, amount.LessThanOrEqual(max), "amount %s above max", amount)
		assert.True(t, amount.Equal(amount.Round(scatter.AmountDecimals)),
			"amount %s has more than %d decimal places", amount, scatter.AmountDecimals)
	}
}

func TestWei(t *testing.T) {
	for _, tc := range []struct {
		eth string
		wei *big.Int
	}{
		{"1", big.NewInt(1_000_000_000_000_000_000)},
		{"0.0001", big.NewInt(100_000_000_000_000)},
		{"0.00000001", big.NewInt(10_000_000_000)}, // smallest representable step
		{"0", big.NewInt(0)},
	} {
		assert.Equal(t, tc.wei, scatter.Wei(decimal.RequireFromString(tc.eth)), "eth %s", tc.eth)
	}
}

// Rounding happens before the shift to wei, so the wei value is always an
// integer with no truncation surprises.
func TestRoundThenConvert(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := scatter.AmountRange(
		decimal.RequireFromString("0.0001"),
		decimal.RequireFromString("0.0005"),
	)

	for i := 0; i < 100; i++ {
		amount := p.Pick(rng)
		wei := scatter.Wei(amount)
		require.True(t, decimal.NewFromBigInt(wei, -18).Equal(amount))
	}
}
