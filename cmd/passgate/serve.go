package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/passgate/pkg/backend"
	"github.com/verdant-labs/passgate/pkg/config"
	"github.com/verdant-labs/passgate/pkg/rpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sale node",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		b, err := backend.New(cfg)
		if err != nil {
			return err
		}

		log.Printf("passgate %s listening on %s", Version, cfg.ServerAddr())
		log.Printf("owner: %s", b.Owner().Hex())
		for _, symbol := range b.Symbols() {
			s, _ := b.Sale(symbol)
			log.Printf("sale %s at %s", symbol, s.Engine.Address().Hex())
		}

		return http.ListenAndServe(cfg.ServerAddr(), rpc.NewServer(b))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
