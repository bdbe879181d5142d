package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fiamma-chain/cosmwasm-client-go/client"
	"github.com/fiamma-chain/cosmwasm-client-go/config"
)

var (
	executeContract string
	executeMsg      string
	executeWait     bool
)

// executeCmd broadcasts a contract execution.
var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute a contract with a JSON message",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		clientConfig, err := config.GetClientConfigFromFile(configFile)
		if err != nil {
			return err
		}

		wasmClient, err := client.NewWasmClient(ctx, clientConfig, logger)
		if err != nil {
			return err
		}

		result, err := wasmClient.ExecuteContract(ctx, executeContract, []byte(executeMsg), nil)
		if err != nil {
			return err
		}
		logger.Info().Str("tx hash", result.Hash).Str("status", string(result.Status)).Msg("Transaction sent")

		if executeWait {
			confirmed, err := wasmClient.WaitForConfirmation(ctx, result.Hash)
			if err != nil {
				return err
			}
			logger.Info().Str("tx hash", confirmed.Hash).Int64("height", confirmed.Height).Str("status", string(confirmed.Status)).Msg("Transaction landed")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(executeCmd)

	executeCmd.Flags().StringVarP(&executeContract, "contract", "a", "", "Contract address to execute against")
	executeCmd.Flags().StringVarP(&executeMsg, "msg", "m", "", "JSON encoded execute message")
	executeCmd.Flags().BoolVarP(&executeWait, "wait", "w", false, "Wait for the transaction to land in a block")

	_ = executeCmd.MarkFlagRequired("msg")
}
