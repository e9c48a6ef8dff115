package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// EndBlocker retries every delayed withdrawal once per block. Retries are
// idempotent, so sweeping here only spares callers from submitting
// MsgRetryWithdrawal themselves.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	retried := 0
	for _, rec := range k.GetAllDepositRecords(ctx) {
		if !rec.Active || !rec.Delayed {
			continue
		}
		if _, err := k.RetryWithdrawal(ctx, rec.PoolID); err != nil {
			k.logger.Error("Withdrawal retry failed", "pool_id", rec.PoolID, "err", err)
			continue
		}
		retried++
	}

	if retried > 0 {
		k.logger.Debug("Vault EndBlocker completed",
			"block", ctx.BlockHeight(),
			"retries", retried,
		)
	}
	return nil
}
