package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-uartlink/codec"
	"github.com/arloliu/go-uartlink/logger"
	"github.com/arloliu/go-uartlink/port"
	"github.com/arloliu/go-uartlink/telemetry"
)

var (
	bridgeDevice string
	bridgeBaud   int
	bridgeMQTT   string
	bridgeSend   string
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Run the link over a physical serial device",
	Long: `Open a host serial device in 8N1 mode and exchange link payload bytes
over it. Received bytes are decoded against the built-in code table and
logged; with --mqtt, decoded conditions are also published to the broker.

With --send, one condition is transmitted and the command exits.`,
	RunE: runBridge,
}

func init() {
	bridgeCmd.Flags().StringVarP(&bridgeDevice, "device", "d", "", "Serial device path (required)")
	bridgeCmd.Flags().IntVarP(&bridgeBaud, "baud", "b", 9600, "Baud rate in bps")
	bridgeCmd.Flags().StringVar(&bridgeMQTT, "mqtt", "", "MQTT broker URL (mqtt://host:port/prefix)")
	bridgeCmd.Flags().StringVar(&bridgeSend, "send", "", "Transmit one condition and exit")
	_ = bridgeCmd.MarkFlagRequired("device")

	rootCmd.AddCommand(bridgeCmd)
}

func runBridge(cmd *cobra.Command, args []string) error {
	log := logger.GetLogger()

	bridge, err := port.Open(bridgeDevice, bridgeBaud, port.WithLogger(log))
	if err != nil {
		return err
	}
	defer bridge.Close()

	table := codec.DefaultTable()

	if bridgeSend != "" {
		encoder, eerr := codec.NewEncoder(table, func(data byte) bool {
			return bridge.Send(data) == nil
		}, codec.WithEncoderLogger(log))
		if eerr != nil {
			return eerr
		}

		if serr := encoder.StateChanged(bridgeSend); serr != nil {
			return serr
		}
		fmt.Printf("sent %q\n", bridgeSend)

		return nil
	}

	var publisher *telemetry.Publisher
	if bridgeMQTT != "" {
		publisher, err = telemetry.NewPublisher(bridgeMQTT, telemetry.WithLogger(log))
		if err != nil {
			return err
		}
		defer publisher.Close()
	}

	decoder, err := codec.NewDecoder(table, codec.WithDecoderLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("bridge listening", "device", bridgeDevice, "baud", bridgeBaud)

	err = bridge.Listen(ctx, func(data byte) {
		name, derr := decoder.Decode(data)
		if derr != nil {
			log.Warn("unrecognized code", "code", data)
			return
		}

		fmt.Printf("received %q (0x%02X)\n", name, data)

		if publisher != nil {
			if perr := publisher.Publish(telemetry.Event{Condition: name, Code: data}); perr != nil {
				log.Error("publish failed", "condition", name, "error", perr)
			}
		}
	})

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
