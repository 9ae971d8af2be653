package log

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger() {
	baseLogger = zerolog.New(os.Stderr)
	isLogInit = false
}

func createConfigAndSetEnv(t *testing.T, text string) {
	tmpfile, err := ioutil.TempFile("", "airdroplog")
	require.NoError(t, err)
	_, err = tmpfile.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	envKey := confEnvPrefix + "_" + confFilePathKey
	os.Setenv(envKey, tmpfile.Name())
}

func createCleanLogger(t *testing.T, configText string, moduleName string) *Logger {
	resetLogger()
	createConfigAndSetEnv(t, configText)
	return NewLogger(moduleName)
}

func TestDefaultConfig(t *testing.T) {
	logger := Default()
	assert.Equal(t, "info", logger.Level())
	assert.Equal(t, "", logger.Name())
}

func TestBasicLevel(t *testing.T) {
	logger := createCleanLogger(t, `
	level = "error"
	`, "test_logger")

	assert.Equal(t, "error", logger.Level())
	assert.Equal(t, "test_logger", logger.Name())
}

func TestSubLevel(t *testing.T) {
	logger := createCleanLogger(t, `
	level = "error"

	[processor]
	level = "warn"
	`, "processor")

	assert.Equal(t, "error", Default().Level())
	assert.Equal(t, "warn", logger.Level())
}

func TestIsDebugEnabled(t *testing.T) {
	logger := createCleanLogger(t, `
	level = "warn"
	`, "info_logger")
	assert.False(t, logger.IsDebugEnabled())

	logger = createCleanLogger(t, `
	level = "debug"
	`, "debug_logger")
	assert.True(t, logger.IsDebugEnabled())
}

func TestGetOutput(t *testing.T) {
	tmplogfile, err := ioutil.TempFile("", "testfilelog")
	require.NoError(t, err)
	tmplogfileName, err := filepath.Abs(tmplogfile.Name())
	require.NoError(t, err)

	tests := []struct {
		name    string
		arg     string
		wantOut *os.File
		wantErr bool
	}{
		{"Empty", "", nil, true},
		{"Stdout", "stdout", os.Stdout, false},
		{"Stderr", "stderr", os.Stderr, false},
		{"CustomFile", tmplogfileName, nil, false},
		{"CantCreate", "no/where/dir/nofile.log", nil, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := getOutput(test.arg)
			if test.wantOut != nil {
				assert.Equal(t, test.wantOut, got)
			}
			assert.Equal(t, test.wantErr, err != nil)
		})
	}
}

func TestFileOutByModule(t *testing.T) {
	baseLog, err := ioutil.TempFile("", "test_basefile")
	require.NoError(t, err)
	subLog, err := ioutil.TempFile("", "test_subfile")
	require.NoError(t, err)

	configStr := fmt.Sprintf(`
out = "%s"
level = "info"

[ledger]
out = "%s"`, filepath.ToSlash(baseLog.Name()), filepath.ToSlash(subLog.Name()))
	createCleanLogger(t, configStr, "ledger")

	NewLogger("ledger").Info().Msg("ledger write")
	NewLogger("other").Info().Msg("other write")

	baseContent, err := ioutil.ReadFile(baseLog.Name())
	require.NoError(t, err)
	assert.True(t, bytes.Contains(baseContent, []byte("other write")))
	assert.False(t, bytes.Contains(baseContent, []byte("ledger write")))

	subContent, err := ioutil.ReadFile(subLog.Name())
	require.NoError(t, err)
	assert.True(t, bytes.Contains(subContent, []byte("ledger write")))
}
