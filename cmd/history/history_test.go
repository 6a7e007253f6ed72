package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionysos599/Loan-Disbursement-System/cmd/root"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/config"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/fileutils"
)

func TestHistoryFunc_DisabledDoesNotCreateDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	cfg := &config.Config{}
	cfg.History.Enabled = false
	cfg.History.Path = dbPath

	prev := root.Cfg
	root.Cfg = cfg
	t.Cleanup(func() { root.Cfg = prev })

	historyFunc(Cmd, nil)

	assert.False(t, fileutils.FileExists(dbPath),
		"listing history with the store disabled must not create the database")
}

func TestHistoryFunc_EnabledCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	cfg := &config.Config{}
	cfg.History.Enabled = true
	cfg.History.Path = dbPath

	prev := root.Cfg
	root.Cfg = cfg
	t.Cleanup(func() { root.Cfg = prev })

	historyFunc(Cmd, nil)

	require.True(t, fileutils.FileExists(dbPath))
}
