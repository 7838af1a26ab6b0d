package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	courier "github.com/courierhq/courier-go"
	"github.com/courierhq/courier-go/adapters"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "courier",
		Short: "Courier telemetry shipper CLI",
		Long:  "Courier ships newline-delimited telemetry payloads to a collector through a durable batched queue.",
	}
	rootCmd.AddCommand(shipCmd())
	rootCmd.AddCommand(drainCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindConfig(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("COURIER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.Flags().String("endpoint", "", "collector endpoint (default: built-in destination)")
	cmd.Flags().Int("batch-size", 10, "max records per network attempt")
	cmd.Flags().Duration("flush-interval", 5*time.Second, "flush cadence; 0 flushes on every dispatch")
	cmd.Flags().String("backend", "file", "queue backend: memory, file or kv")
	cmd.Flags().String("store-id", "courier_events", "logical queue name")
	cmd.Flags().String("data-dir", ".", "directory for file/kv state")
	cmd.Flags().String("log-level", "warn", "log level: debug, info, warn, error")
	v.BindPFlags(cmd.Flags())
	return v
}

func newClient(v *viper.Viper) (*courier.Client, error) {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(v.GetString("log-level")); err == nil {
		logger.SetLevel(level)
	}

	return courier.New(courier.Config{
		BatchSize:     v.GetInt("batch-size"),
		FlushInterval: v.GetDuration("flush-interval"),
		Backend:       courier.Backend(v.GetString("backend")),
		StoreID:       v.GetString("store-id"),
		DataDir:       v.GetString("data-dir"),
		Destination:   v.GetString("endpoint"),
		Logger:        adapters.WrapLogrus(logger),
	})
}

// shipCmd reads one payload per stdin line, dispatches it, and drains before
// exiting. Payloads that cannot be delivered stay in the store for the next
// run.
func shipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ship",
		Short: "Read payloads from stdin and ship them",
	}
	v := bindConfig(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		client, err := newClient(v)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				lines <- line
			}
		}()

		shipped := 0
		for {
			select {
			case <-ctx.Done():
				fmt.Fprintf(os.Stderr, "interrupted after %d payloads, draining\n", shipped)
				return nil
			case line, ok := <-lines:
				if !ok {
					client.Flush()
					client.Settle()
					fmt.Fprintf(os.Stderr, "shipped %d payloads\n", shipped)
					return nil
				}
				client.Dispatch([]byte(line), nil)
				shipped++
			}
		}
	}
	return cmd
}

// drainCmd flushes whatever a previous run left in the store, without reading
// new payloads.
func drainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Flush records left queued by a previous run",
	}
	v := bindConfig(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		client, err := newClient(v)
		if err != nil {
			return err
		}
		defer client.Close()

		client.Flush()
		client.Settle()
		return nil
	}
	return cmd
}
