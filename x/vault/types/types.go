package types

import (
	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "vault"
	StoreKey   = ModuleName
)

// Slippage bound for single-hop conversion into the yield asset: accepted
// output must be at least 99% of input.
const (
	MinSwapOutBps  = 9900
	BpsDenominator = 10000
)

// DepositRecord tracks one pool's principal routed to the yield source.
// Active clears on successful return; Delayed is a retry signal set when
// the yield source refuses withdrawal.
type DepositRecord struct {
	PoolID     string   `json:"pool_id"`
	AssetIn    string   `json:"asset_in"`
	Principal  math.Int `json:"principal"` // in the yield asset's unit
	Active     bool     `json:"active"`
	Delayed    bool     `json:"delayed"`
	SuppliedAt int64    `json:"supplied_at"`
}

// NewDepositRecord creates an active deposit record.
func NewDepositRecord(poolID, assetIn string, principal math.Int, now int64) *DepositRecord {
	return &DepositRecord{
		PoolID:     poolID,
		AssetIn:    assetIn,
		Principal:  principal,
		Active:     true,
		SuppliedAt: now,
	}
}

// MinSwapOut returns the smallest acceptable output of a one-hop swap of
// amountIn.
func MinSwapOut(amountIn math.Int) math.Int {
	return amountIn.MulRaw(MinSwapOutBps).QuoRaw(BpsDenominator)
}
