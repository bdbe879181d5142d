package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fiamma-chain/cosmwasm-client-go/client"
	"github.com/fiamma-chain/cosmwasm-client-go/config"
)

var listenContract string

// listenCmd streams contract events until interrupted.
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Stream wasm events for a contract",
	Long: `Opens a websocket subscription and prints decoded contract events
until interrupted. With no --contract flag, the config's default contract is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		clientConfig, err := config.GetClientConfigFromFile(configFile)
		if err != nil {
			return err
		}

		wasmClient, err := client.NewWasmClient(ctx, clientConfig, logger)
		if err != nil {
			return err
		}

		subscription, err := wasmClient.SubscribeContractEvents(ctx, listenContract)
		if err != nil {
			return err
		}
		defer subscription.Close()

		for event := range subscription.Events() {
			eventLog := logger.Info().
				Int64("height", event.Height).
				Str("tx hash", event.TxHash).
				Str("type", event.Type)
			for key, value := range event.Attributes {
				eventLog = eventLog.Str(key, value)
			}
			eventLog.Msg("Contract event")
		}

		return subscription.Err()
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().StringVarP(&listenContract, "contract", "a", "", "Contract address to listen to")
}
