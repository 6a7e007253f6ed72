// Package serve handles the HTTP API command.
package serve

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Dionysos599/Loan-Disbursement-System/cmd/root"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/history"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/logging"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/server"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the loan forecast HTTP API",
	Long:  `Serve the upload, forecast export, and history endpoints over HTTP.`,
	Run:   serveFunc,
}

func serveFunc(cmd *cobra.Command, args []string) {
	var store *history.Store
	if root.Cfg.History.Enabled {
		s, err := history.Open(root.Cfg.History.Path)
		if err != nil {
			root.Log.Fatalf("Error opening history store: %v", err)
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	handler := server.NewHandler(server.Options{
		Logger:            logging.NewLogrusAdapterFromLogger(root.Log),
		Store:             store,
		Delimiter:         root.Cfg.Delimiter(),
		MaxUploadBytes:    root.Cfg.Server.MaxUploadBytes,
		DefaultStartMonth: root.Cfg.Forecast.StartMonth,
	})

	root.Log.Infof("Listening on %s", root.Cfg.Server.ListenAddress)
	if err := http.ListenAndServe(root.Cfg.Server.ListenAddress, handler); err != nil {
		root.Log.Fatalf("Server error: %v", err)
	}
}
