package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// GetQueryCmd returns the cli query commands for the vault module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "vault",
		Short:                      "Querying commands for the vault module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryDeposit(),
	)

	return cmd
}

// CmdQueryDeposit returns the command to query a pool's custody record
func CmdQueryDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [pool-id]",
		Short: "Query the custody record for a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID := args[0]
			fmt.Printf("Deposit query for pool: %s requires running node connection\n", poolID)
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
