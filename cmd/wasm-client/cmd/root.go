package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fiamma-chain/cosmwasm-client-go/log"
)

var (
	rawLogLevel string
	configFile  string

	logger *log.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wasm-client",
	Short: "A client for CosmWasm enabled chains.",
	Long: `wasm-client talks to CosmWasm enabled Cosmos SDK chains: uploading,
instantiating and executing contracts, and streaming contract events.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = log.NewLogger(rawLogLevel)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config-file", "c", "~/.wasm-client/config.yml", "A path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&rawLogLevel, "log-level", "l", "info", "Logging level")
}
