package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tripwell/tripkit/internal/logging"
	"github.com/tripwell/tripkit/internal/mockserver"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Start a local TripWell API double",
	Long:  `Starts an in-memory implementation of the TripWell API for development and demos. All data is lost on shutdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		debug, _ := cmd.Flags().GetBool("debug")

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		backend := mockserver.New(mockserver.WithLogger(logging.New(level)))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: backend.Handler(),
		}

		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting TripWell mock server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Mock server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(mockServerCmd)
	mockServerCmd.Flags().StringP("port", "p", "8477", "Port to listen on")
}
