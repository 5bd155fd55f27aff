package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <symbol>",
	Short: "Show a sale's phase, counters and configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var status map[string]interface{}
		if err := call("sale_status", []interface{}{args[0]}, &status); err != nil {
			return err
		}
		printJSON(status)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured sales",
	RunE: func(cmd *cobra.Command, args []string) error {
		var symbols []string
		if err := call("sale_list", []interface{}{}, &symbols); err != nil {
			return err
		}
		printJSON(symbols)
		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the node's dev-harness accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var accounts []string
		if err := call("node_accounts", []interface{}{}, &accounts); err != nil {
			return err
		}
		printJSON(accounts)
		return nil
	},
}

var eventsSince uint64

var eventsCmd = &cobra.Command{
	Use:   "events <symbol>",
	Short: "Show a sale's event log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var events []map[string]interface{}
		if err := call("sale_events", []interface{}{args[0], eventsSince}, &events); err != nil {
			return err
		}
		printJSON(events)
		return nil
	},
}

func init() {
	eventsCmd.Flags().Uint64Var(&eventsSince, "since", 0, "only events after this sequence number")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(eventsCmd)
}
