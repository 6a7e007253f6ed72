// Package history handles the upload-history listing command.
package history

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Dionysos599/Loan-Disbursement-System/cmd/root"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/history"
)

var limit int

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded upload batches",
	Run:   historyFunc,
}

func init() {
	Cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of batches to show")
}

func historyFunc(cmd *cobra.Command, args []string) {
	if !root.Cfg.History.Enabled {
		fmt.Println("Upload history is not enabled. Set history.enabled in the configuration to record batches.")
		return
	}

	store, err := history.Open(root.Cfg.History.Path)
	if err != nil {
		root.Log.Fatalf("Error opening history store: %v", err)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.ListBatches(limit)
	if err != nil {
		root.Log.Fatalf("Error listing upload history: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No upload batches recorded.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BATCH\tFILE\tUPLOADED\tSTATUS\tTOTAL\tPROCESSED\tFAILED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			e.BatchID, e.FileName, e.UploadedAt.Format("2006-01-02 15:04"),
			e.Status, e.TotalRecords, e.ProcessedRecords, e.FailedRecords)
	}
	_ = w.Flush()
}
