package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Inspect and control the node's virtual clock",
	RunE: func(cmd *cobra.Command, args []string) error {
		var ts int64
		if err := call("node_timestamp", []interface{}{}, &ts); err != nil {
			return err
		}
		printJSON(ts)
		return nil
	},
}

var timeSetCmd = &cobra.Command{
	Use:   "set <timestamp>",
	Short: "Pin the node clock to a unix timestamp",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		var now int64
		if err := call("node_setTime", []interface{}{ts}, &now); err != nil {
			return err
		}
		printJSON(now)
		return nil
	},
}

var timeAdvanceCmd = &cobra.Command{
	Use:   "advance <seconds>",
	Short: "Advance the node clock by a number of seconds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secs, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		var now int64
		if err := call("node_increaseTime", []interface{}{secs}, &now); err != nil {
			return err
		}
		printJSON(now)
		return nil
	},
}

var timeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Unpin the node clock and return to wall time",
	RunE: func(cmd *cobra.Command, args []string) error {
		var ok bool
		if err := call("node_resetTime", []interface{}{}, &ok); err != nil {
			return err
		}
		printJSON(ok)
		return nil
	},
}

func init() {
	timeCmd.AddCommand(timeSetCmd)
	timeCmd.AddCommand(timeAdvanceCmd)
	timeCmd.AddCommand(timeResetCmd)

	rootCmd.AddCommand(timeCmd)
}
