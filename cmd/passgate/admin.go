package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	adminCaller string

	windowStart  int64
	windowEnd    int64
	windowActive bool

	royaltyBps uint16
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative mutators (capability gated)",
}

var setWindowCmd = &cobra.Command{
	Use:   "set-window <symbol>",
	Short: "Replace the sale window and active flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_setWindow", []interface{}{map[string]interface{}{
			"symbol":         args[0],
			"caller":         adminCaller,
			"whitelistStart": windowStart,
			"whitelistEnd":   windowEnd,
			"active":         windowActive,
		}})
	},
}

var setAllowlistCmd = &cobra.Command{
	Use:   "set-allowlist <symbol> <address>...",
	Short: "Commit a new allowlist; the node builds and stores the tree",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var root string
		err := call("sale_setAllowlist", []interface{}{map[string]interface{}{
			"symbol":   args[0],
			"caller":   adminCaller,
			"accounts": args[1:],
		}}, &root)
		if err != nil {
			return err
		}
		fmt.Println(root)
		return nil
	},
}

var setRootCmd = &cobra.Command{
	Use:   "set-root <symbol> <root>",
	Short: "Commit an externally generated allowlist root",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_setAllowlistRoot", []interface{}{args[0], adminCaller, args[1]})
	},
}

var setPricesCmd = &cobra.Command{
	Use:   "set-prices <symbol> <whitelist-price> <public-price>",
	Short: "Override the unit prices in settlement units",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_setPrices", []interface{}{args[0], adminCaller, args[1], args[2]})
	},
}

var grantAgentCmd = &cobra.Command{
	Use:   "grant-agent <symbol> <address>",
	Short: "Grant the agent-minter capability",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_grantAgent", []interface{}{args[0], adminCaller, args[1]})
	},
}

var revokeAgentCmd = &cobra.Command{
	Use:   "revoke-agent <symbol> <address>",
	Short: "Revoke the agent-minter capability",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_revokeAgent", []interface{}{args[0], adminCaller, args[1]})
	},
}

var setTreasuryCmd = &cobra.Command{
	Use:   "set-treasury <symbol> <address>",
	Short: "Change the treasury receiver (owner only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_setTreasury", []interface{}{args[0], adminCaller, args[1]})
	},
}

var setRoyaltyCmd = &cobra.Command{
	Use:   "set-royalty <symbol> <receiver>",
	Short: "Update the royalty receiver and rate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_setRoyalty", []interface{}{args[0], adminCaller, args[1], royaltyBps})
	},
}

var setBaseURICmd = &cobra.Command{
	Use:   "set-base-uri <symbol> <uri>",
	Short: "Set the metadata base URI (fails once frozen)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_setBaseURI", []interface{}{args[0], adminCaller, args[1]})
	},
}

var freezeCmd = &cobra.Command{
	Use:   "freeze-metadata <symbol>",
	Short: "Permanently lock the base URI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_freezeMetadata", []interface{}{args[0], adminCaller})
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause <symbol>",
	Short: "Pause both mint entry points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_pause", []interface{}{args[0], adminCaller})
	},
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause <symbol>",
	Short: "Resume minting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_unpause", []interface{}{args[0], adminCaller})
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <symbol> <NATIVE|TOKEN>",
	Short: "Sweep the engine's balance of an asset to the treasury",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var swept string
		if err := call("sale_withdraw", []interface{}{args[0], adminCaller, args[1]}, &swept); err != nil {
			return err
		}
		fmt.Println(swept)
		return nil
	},
}

var authorizeUpgradeCmd = &cobra.Command{
	Use:   "authorize-upgrade <symbol> <implementation>",
	Short: "Record the next deployment target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adminCall("sale_authorizeUpgrade", []interface{}{args[0], adminCaller, args[1]})
	},
}

// adminCall performs a mutator call and prints ok on success.
func adminCall(method string, params []interface{}) error {
	var ok interface{}
	if err := call(method, params, &ok); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func init() {
	adminCmd.PersistentFlags().StringVar(&adminCaller, "caller", "", "calling address")
	adminCmd.MarkPersistentFlagRequired("caller")

	setWindowCmd.Flags().Int64Var(&windowStart, "start", 0, "whitelist start (unix seconds)")
	setWindowCmd.Flags().Int64Var(&windowEnd, "end", 0, "whitelist end (unix seconds)")
	setWindowCmd.Flags().BoolVar(&windowActive, "active", true, "sale active flag")

	setRoyaltyCmd.Flags().Uint16Var(&royaltyBps, "bps", 0, "royalty rate in basis points")

	adminCmd.AddCommand(setWindowCmd)
	adminCmd.AddCommand(setAllowlistCmd)
	adminCmd.AddCommand(setRootCmd)
	adminCmd.AddCommand(setPricesCmd)
	adminCmd.AddCommand(grantAgentCmd)
	adminCmd.AddCommand(revokeAgentCmd)
	adminCmd.AddCommand(setTreasuryCmd)
	adminCmd.AddCommand(setRoyaltyCmd)
	adminCmd.AddCommand(setBaseURICmd)
	adminCmd.AddCommand(freezeCmd)
	adminCmd.AddCommand(pauseCmd)
	adminCmd.AddCommand(unpauseCmd)
	adminCmd.AddCommand(withdrawCmd)
	adminCmd.AddCommand(authorizeUpgradeCmd)
	rootCmd.AddCommand(adminCmd)
}
