package main

import (
	"github.com/spf13/cobra"

	"github.com/arloliu/go-uartlink/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "uartlink",
	Short: "Serial telemetry link simulator and bridge",
	Long: `uartlink - tools for the go-uartlink serial telemetry protocol.

Provides a tick-accurate loopback simulator of the transmit/receive engines
(with fault injection and CBOR wire-trace capture) and a bridge that runs the
validated-byte boundary over a physical serial device, optionally forwarding
decoded conditions to an MQTT broker.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
