package app

import (
	"context"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	savingskeeper "github.com/susulabs/susu-chain/x/savings/keeper"
	vaultkeeper "github.com/susulabs/susu-chain/x/vault/keeper"
	vaulttypes "github.com/susulabs/susu-chain/x/vault/types"
)

// allowAllIdentity is the identity oracle used while no verification
// provider is wired in. Pools that require identity accept everyone.
type allowAllIdentity struct{}

func newAllowAllIdentity() savingskeeper.IdentityKeeper {
	return allowAllIdentity{}
}

func (allowAllIdentity) IsVerified(ctx sdk.Context, addr string) bool {
	return true
}

func (allowAllIdentity) IsBlacklisted(ctx sdk.Context, addr string) bool {
	return false
}

// offchainRandomness records draw requests for an off-chain provider to
// pick up. Delivery comes back as a signed fulfilment tx from the draw
// authority.
type offchainRandomness struct {
	logger log.Logger
}

func newOffchainRandomness(logger log.Logger) savingskeeper.RandomnessRequester {
	return offchainRandomness{logger: logger.With("module", "randomness")}
}

func (r offchainRandomness) RequestDraw(ctx sdk.Context, poolID, requestID string) error {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent("randomness_requested",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("request_id", requestID),
		),
	)
	r.logger.Info("draw randomness requested", "pool_id", poolID, "request_id", requestID)
	return nil
}

type bankBalanceKeeper interface {
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}

// bankYieldSource parks supplied principal in a dedicated module account
// and returns exactly what went in. It never generates yield and is never
// illiquid; deployments targeting a real lending protocol replace it.
type bankYieldSource struct {
	bank bankBalanceKeeper
}

func newBankYieldSource(bank bankBalanceKeeper) vaultkeeper.YieldSource {
	return bankYieldSource{bank: bank}
}

func (s bankYieldSource) Supply(ctx sdk.Context, denom string, amount math.Int) error {
	return s.bank.SendCoinsFromModuleToModule(ctx, vaulttypes.ModuleName, YieldAccountName,
		sdk.NewCoins(sdk.NewCoin(denom, amount)))
}

func (s bankYieldSource) Withdraw(ctx sdk.Context, denom string, principal math.Int) (math.Int, bool) {
	err := s.bank.SendCoinsFromModuleToModule(ctx, YieldAccountName, vaulttypes.ModuleName,
		sdk.NewCoins(sdk.NewCoin(denom, principal)))
	if err != nil {
		return math.ZeroInt(), false
	}
	return principal, true
}

// passthroughSwapRouter handles the degenerate same-denom case only. The
// vault skips the swap leg when the pool already saves in the yield
// denom, so with no DEX wired this router should never be reached.
type passthroughSwapRouter struct{}

func newPassthroughSwapRouter() vaultkeeper.SwapRouter {
	return passthroughSwapRouter{}
}

func (passthroughSwapRouter) SwapExactIn(ctx sdk.Context, denomIn, denomOut string, amountIn, minOut math.Int) (math.Int, error) {
	if denomIn == denomOut {
		return amountIn, nil
	}
	return math.ZeroInt(), vaulttypes.ErrSlippageExceeded.Wrapf("no swap route from %s to %s", denomIn, denomOut)
}
