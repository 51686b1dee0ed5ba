package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/dosh/core"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shell over SSH.",
	Long: `Serve the shell over SSH on the configured port.

Every session gets its own shell and an in-memory copy of the configured root
directory. Host commands can't be run.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		serveLog := log.New(cmd.ErrOrStderr(), "[serve] ", log.LstdFlags)
		serveLog.Println("Initializing server...")

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		serveLog.Println("Opening event log...")
		events, closer, err := openEventLog(configuration)
		if err != nil {
			return err
		}
		defer closer.Close()

		server, err := core.NewServer(configuration, events, serveLog)
		if err != nil {
			return err
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
				serveLog.Fatal(err)
			}
		}()

		sigs := make(chan os.Signal, 1)

		serveLog.Println("Starting interrupt handler")
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		sig := <-sigs
		serveLog.Printf("Got signal %q, terminating...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			serveLog.Printf("Server shutdown failed: %s", err)
		}
		serveLog.Print("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
