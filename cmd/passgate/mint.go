package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	mintCaller string
	mintAmount uint64
	mintProof  []string

	agentRecipients []string
	agentAmounts    []uint

	approveOwner  string
	approveAmount string
)

var mintCmd = &cobra.Command{
	Use:   "mint <symbol>",
	Short: "Self-service mint during the whitelist or public phase",
	Long: `Mint passes as the given caller. During the whitelist phase a merkle
proof is required; fetch one with: passgate proof <symbol> <address>.

The caller must first approve the sale's engine address for the payment
amount: passgate approve <symbol> --owner <address> --amount <units>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result map[string]interface{}
		err := call("sale_mint", []interface{}{map[string]interface{}{
			"symbol": args[0],
			"caller": mintCaller,
			"amount": mintAmount,
			"proof":  mintProof,
		}}, &result)
		if err != nil {
			return err
		}
		printJSON(result)
		return nil
	},
}

var agentMintCmd = &cobra.Command{
	Use:   "agent-mint <symbol>",
	Short: "Mint reserved-allocation passes to a batch of recipients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(agentRecipients) != len(agentAmounts) {
			return fmt.Errorf("--to and --amount counts must match")
		}
		amounts := make([]uint64, len(agentAmounts))
		for i, a := range agentAmounts {
			amounts[i] = uint64(a)
		}
		var ids []uint64
		err := call("sale_agentMint", []interface{}{map[string]interface{}{
			"symbol":     args[0],
			"caller":     mintCaller,
			"recipients": agentRecipients,
			"amounts":    amounts,
		}}, &ids)
		if err != nil {
			return err
		}
		printJSON(ids)
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <symbol>",
	Short: "Approve the sale engine to pull settlement tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var status struct {
			EngineAddress string `json:"engineAddress"`
		}
		if err := call("sale_status", []interface{}{args[0]}, &status); err != nil {
			return err
		}

		var ok bool
		if err := call("token_approve", []interface{}{approveOwner, status.EngineAddress, approveAmount}, &ok); err != nil {
			return err
		}
		fmt.Printf("approved %s for %s\n", approveAmount, status.EngineAddress)
		return nil
	},
}

var proofCmd = &cobra.Command{
	Use:   "proof <symbol> <address>",
	Short: "Fetch a whitelist membership proof",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var proof []string
		if err := call("sale_proof", []interface{}{args[0], args[1]}, &proof); err != nil {
			return err
		}
		fmt.Println(strings.Join(proof, ","))
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show an address's settlement-token balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var balance string
		if err := call("token_balanceOf", []interface{}{args[0]}, &balance); err != nil {
			return err
		}
		fmt.Println(balance)
		return nil
	},
}

func init() {
	mintCmd.Flags().StringVar(&mintCaller, "caller", "", "minting address")
	mintCmd.Flags().Uint64Var(&mintAmount, "amount", 1, "number of passes")
	mintCmd.Flags().StringSliceVar(&mintProof, "proof", nil, "merkle proof hashes (comma separated)")
	mintCmd.MarkFlagRequired("caller")

	agentMintCmd.Flags().StringVar(&mintCaller, "caller", "", "agent address")
	agentMintCmd.Flags().StringSliceVar(&agentRecipients, "to", nil, "recipient addresses")
	agentMintCmd.Flags().UintSliceVar(&agentAmounts, "amount", nil, "per-recipient quantities")
	agentMintCmd.MarkFlagRequired("caller")

	approveCmd.Flags().StringVar(&approveOwner, "owner", "", "token owner address")
	approveCmd.Flags().StringVar(&approveAmount, "amount", "", "allowance in settlement units")
	approveCmd.MarkFlagRequired("owner")
	approveCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(agentMintCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(proofCmd)
	rootCmd.AddCommand(balanceCmd)
}
