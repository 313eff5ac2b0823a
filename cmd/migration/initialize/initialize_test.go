package initialize

import (
	"os"
	"path/filepath"
	"testing"
	"turnovers/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "exports")

	require.NoError(t, InitializeStorage(config.Config{ExportDir: dir}, logger.New("test")))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitializeStorage_NoDirectory(t *testing.T) {
	assert.NoError(t, InitializeStorage(config.Config{}, logger.New("test")))
}
