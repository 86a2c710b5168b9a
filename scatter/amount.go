package scatter

import (
	"math/big"
	"math/rand"

	"github.com/shopspring/decimal"
)

// AmountDecimals is the precision amounts are rounded to before conversion
// to wei. Rounding happens before the conversion so the wei value is always
// exact.
const AmountDecimals = 8

// AmountPolicy selects the ETH amount sent to each recipient: a fixed value,
// or a uniformly random value in [Min, Max].
type AmountPolicy struct {
	Fixed decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal

	random bool
}

// FixedAmount returns a policy that always picks amount.
func FixedAmount(amount decimal.Decimal) AmountPolicy {
	return AmountPolicy{Fixed: amount.Round(AmountDecimals)}
}

// AmountRange returns a policy that picks uniformly from [min, max].
func AmountRange(min, max decimal.Decimal) AmountPolicy {
	return AmountPolicy{Min: min, Max: max, random: true}
}

// Pick returns the amount for the next transfer, rounded to AmountDecimals.
func (p AmountPolicy) Pick(rng *rand.Rand) decimal.Decimal {
	if !p.random {
		return p.Fixed
	}
	span := p.Max.Sub(p.Min)
	r := decimal.NewFromFloat(rng.Float64())
	return p.Min.Add(span.Mul(r)).Round(AmountDecimals)
}

// Wei converts an ETH amount to wei. Callers pass amounts already rounded to
// AmountDecimals, so the shift is exact.
func Wei(eth decimal.Decimal) *big.Int {
	return eth.Shift(18).BigInt()
}
