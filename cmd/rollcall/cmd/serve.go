package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eventstack/rollcall/internal/server"
	"github.com/eventstack/rollcall/pkg/constants"
	"github.com/eventstack/rollcall/pkg/logging"
)

// serveCmd runs the HTTP API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rollcall HTTP API server",
	Long: `Serve exposes the reconciliation engine over HTTP:

  POST {prefix}/participants      submit a batch
  GET  {prefix}/participants      list stored records
  GET  {prefix}/participants/{id} fetch one record
  GET  /health                    liveness

The server owns the participant store for its lifetime; batches are
fully serialized.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("path-prefix", "/api/v1", "route prefix for API endpoints")

	if err := viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("path-prefix", serveCmd.Flags().Lookup("path-prefix")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rc, err := newRollcall()
	if err != nil {
		return err
	}

	cfg := server.Config{
		Addr:       viper.GetString("addr"),
		PathPrefix: viper.GetString("path-prefix"),
	}
	srv := server.New(rc.Store(), rc, cfg, logging.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-cmd.Context().Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
