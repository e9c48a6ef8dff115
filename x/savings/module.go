package savings

import (
	"encoding/json"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/susulabs/susu-chain/x/savings/keeper"
	"github.com/susulabs/susu-chain/x/savings/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for savings
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgCreatePool{}, "savings/MsgCreatePool", nil)
	cdc.RegisterConcrete(&types.MsgJoinPool{}, "savings/MsgJoinPool", nil)
	cdc.RegisterConcrete(&types.MsgDeposit{}, "savings/MsgDeposit", nil)
	cdc.RegisterConcrete(&types.MsgBatchDeposit{}, "savings/MsgBatchDeposit", nil)
	cdc.RegisterConcrete(&types.MsgEmergencyWithdraw{}, "savings/MsgEmergencyWithdraw", nil)
	cdc.RegisterConcrete(&types.MsgEndSavingsPhase{}, "savings/MsgEndSavingsPhase", nil)
	cdc.RegisterConcrete(&types.MsgEndYieldPhase{}, "savings/MsgEndYieldPhase", nil)
	cdc.RegisterConcrete(&types.MsgFulfillDraw{}, "savings/MsgFulfillDraw", nil)
	cdc.RegisterConcrete(&types.MsgClaim{}, "savings/MsgClaim", nil)
	cdc.RegisterConcrete(&types.MsgCheckAndEvict{}, "savings/MsgCheckAndEvict", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&types.MsgCreatePool{},
		&types.MsgJoinPool{},
		&types.MsgDeposit{},
		&types.MsgBatchDeposit{},
		&types.MsgEmergencyWithdraw{},
		&types.MsgEndSavingsPhase{},
		&types.MsgEndYieldPhase{},
		&types.MsgFulfillDraw{},
		&types.MsgClaim{},
		&types.MsgCheckAndEvict{},
	)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	return nil
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	return nil
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
}

// AppModule implements an application module for the savings module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services
func (am AppModule) RegisterServices(cfg module.Configurator) {
	_ = keeper.NewMsgServerImpl(am.keeper)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// EndBlocker advances pools whose phase clocks lapsed during the block
func (am AppModule) EndBlocker(ctx sdk.Context) error {
	return am.keeper.EndBlocker(ctx)
}
