package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vsxregistry/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP server for the extension panel",
	Long:  `Starts the HTTP server that lets a front end list, search, install and uninstall extensions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.registry.Init(ctx)
	if err := a.prefs.Watch(); err != nil {
		a.logger.Warnw("preferences will not follow config file edits", "error", err)
	}

	srv := createServer(a)
	addr := fmt.Sprintf("%s:%d", a.config.Host, a.config.Port)

	protocol := "http"
	if a.config.UseHTTPS {
		protocol = "https"
	}
	fmt.Printf("Server started. API is available at: %s://%s\n", protocol, addr)
	fmt.Println("Press Ctrl+C to stop the server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		fmt.Printf("\nSignal received: %v. Stopping server...\n", sig)
	case err := <-errChan:
		return fmt.Errorf("server start error: %w", err)
	}

	fmt.Println("Performing graceful shutdown...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.LogServerStop(err)
		return err
	}

	a.logger.LogServerStop(nil)
	fmt.Println("Server stopped successfully")
	return nil
}

func createServer(a *app) *server.Server {
	if a.config.UseHTTPS {
		return server.NewWithHTTPS(a.registry, a.progress, a.logger, a.config.CertFile, a.config.KeyFile)
	}
	return server.New(a.registry, a.progress, a.logger)
}
