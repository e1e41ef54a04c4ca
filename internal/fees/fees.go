// Package fees implements the venue's taker fee schedule in integer cents.
package fees

import "github.com/goldbar123467/arb-bot/pkg/types"

// TakerFeeBps is the venue's taker fee rate in basis points of notional.
// It is part of the fee schedule, not an operator knob.
const TakerFeeBps = 7

// TakerFeeCents returns the taker fee in cents for buying or selling
// contracts at priceCents:
//
//	ceil(7 * contracts * price * (100 - price) / 10000)
//
// The division rounds up, so the fee is never understated. priceCents must be
// inside the tradable 1..99 range; 0 and 100 are not prices the venue quotes
// and are rejected rather than returned as a zero fee.
func TakerFeeCents(contracts, priceCents int64) (int64, error) {
	if contracts <= 0 {
		return 0, &types.ContractViolation{Field: "contracts", Reason: "must be positive"}
	}
	if priceCents < 1 || priceCents > 99 {
		return 0, &types.ContractViolation{Field: "price", Reason: "must be in 1..99 cents"}
	}

	numerator := TakerFeeBps * contracts * priceCents * (100 - priceCents)
	return (numerator + 9_999) / 10_000, nil
}
