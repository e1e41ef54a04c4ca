package arbitrage

// CreateTestOpportunity builds a profitable three-bracket long opportunity
// for use in tests across packages.
//
// Asks 20/25/40 sum to 85c: gross edge 15c, at 5 contracts gross profit 75c,
// per-leg fees 6+7+9 = 22c, net 53c, ROI 1060 bps.
func CreateTestOpportunity(eventTicker string) *Opportunity {
	legs := []Leg{
		{MarketTicker: eventTicker + "-B1", PriceCents: 20, Available: 120},
		{MarketTicker: eventTicker + "-B2", PriceCents: 25, Available: 80},
		{MarketTicker: eventTicker + "-B3", PriceCents: 40, Available: 200},
	}

	opp, err := NewOpportunity(eventTicker, "test event", DirectionLong, legs, 5)
	if err != nil {
		panic(err)
	}
	return opp
}
