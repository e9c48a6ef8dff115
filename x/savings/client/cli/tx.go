package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/susulabs/susu-chain/x/savings/types"
)

const (
	flagWinnerCount      = "winner-count"
	flagRequireIdentity  = "require-identity"
	flagEnrollmentWindow = "enrollment-window"
	flagDistributionMode = "distribution-mode"
	flagTreasury         = "treasury"
)

// GetTxCmd returns the transaction commands for the savings module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "savings",
		Short:                      "Savings module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreatePool(),
		CmdJoinPool(),
		CmdDeposit(),
		CmdBatchDeposit(),
		CmdEmergencyWithdraw(),
		CmdEndSavingsPhase(),
		CmdEndYieldPhase(),
		CmdFulfillDraw(),
		CmdClaim(),
		CmdCheckAndEvict(),
	)

	return cmd
}

// CmdCreatePool returns the command to create a savings pool
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [denom] [target-amount] [capacity] [total-cycles] [cycle-duration-seconds]",
		Short: "Create a new rotating savings pool",
		Long: `Create a new rotating savings pool.

Examples:
  susud tx savings create-pool uusdc 12000 6 10 604800 --from alice
  susud tx savings create-pool uusdc 12000 6 10 604800 --winner-count 2 --enrollment-window strict --from alice`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			capacity, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid capacity: %v", err)
			}
			totalCycles, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid total cycles: %v", err)
			}
			cycleDuration, err := strconv.ParseInt(args[4], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid cycle duration: %v", err)
			}

			winnerCount, _ := cmd.Flags().GetInt64(flagWinnerCount)
			requireIdentity, _ := cmd.Flags().GetBool(flagRequireIdentity)
			enrollmentWindow, _ := cmd.Flags().GetString(flagEnrollmentWindow)
			distributionMode, _ := cmd.Flags().GetString(flagDistributionMode)
			treasury, _ := cmd.Flags().GetString(flagTreasury)

			msg := &types.MsgCreatePool{
				Creator:          clientCtx.GetFromAddress().String(),
				DepositDenom:     args[0],
				TargetAmount:     args[1],
				Capacity:         capacity,
				TotalCycles:      totalCycles,
				WinnerCount:      winnerCount,
				CycleDuration:    cycleDuration,
				RequireIdentity:  requireIdentity,
				EnrollmentWindow: strings.ToLower(enrollmentWindow),
				DistributionMode: strings.ToLower(distributionMode),
				Treasury:         treasury,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Int64(flagWinnerCount, 1, "Number of prize winners drawn at settlement")
	cmd.Flags().Bool(flagRequireIdentity, false, "Require identity verification to join")
	cmd.Flags().String(flagEnrollmentWindow, types.EnrollmentWindowStandard, "Enrollment window policy (standard|strict|fixed)")
	cmd.Flags().String(flagDistributionMode, types.DistributionEqual, "Prize distribution mode")
	cmd.Flags().String(flagTreasury, "", "Treasury address receiving the protocol fee")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdJoinPool returns the command to join a pool
func CmdJoinPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join [pool-id]",
		Short: "Join a savings pool and pay the first cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgJoinPool{
				Member: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDeposit returns the command to pay the current cycle
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [pool-id] [amount]",
		Short: "Pay the current cycle's contribution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgDeposit{
				Member: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Amount: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdBatchDeposit returns the command to recover one missed cycle
func CmdBatchDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch-deposit [pool-id] [amount]",
		Short: "Pay one missed cycle together with the current one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgBatchDeposit{
				Member: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Amount: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdEmergencyWithdraw returns the command to exit with a full refund
func CmdEmergencyWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency-withdraw [pool-id]",
		Short: "Exit a pool early with a full refund of contributions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgEmergencyWithdraw{
				Member: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdEndSavingsPhase returns the command to close a pool's saving phase
func CmdEndSavingsPhase() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "end-savings [pool-id]",
		Short: "Close the saving phase and route the pool balance to the vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgEndSavingsPhase{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdEndYieldPhase returns the command to close a pool's yield phase
func CmdEndYieldPhase() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "end-yield [pool-id]",
		Short: "Close the yield phase and request draw randomness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgEndYieldPhase{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdFulfillDraw returns the command for the randomness provider to
// deliver a random value
func CmdFulfillDraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fulfill-draw [pool-id] [random-value]",
		Short: "Deliver the random value for a drawing pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			randomValue, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid random value: %v", err)
			}

			msg := &types.MsgFulfillDraw{
				Provider:    clientCtx.GetFromAddress().String(),
				PoolID:      args[0],
				RandomValue: randomValue,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaim returns the command to claim a settled payout
func CmdClaim() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [pool-id]",
		Short: "Claim principal and prizes from a settled or cancelled pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaim{
				Member: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCheckAndEvict returns the command to trigger a delinquency check
func CmdCheckAndEvict() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-evict [pool-id] [member]",
		Short: "Evict a member who missed two or more cycles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgCheckAndEvict{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Member: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
