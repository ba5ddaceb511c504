package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("SINKSWITCH_TEST_DIR", "/tmp/sounds")

	assert.Equal(t, "/tmp/sounds/beep.wav", ExpandEnv("${SINKSWITCH_TEST_DIR}/beep.wav"))
	assert.Equal(t, "/tmp/sounds/beep.wav", ExpandEnv("$SINKSWITCH_TEST_DIR/beep.wav"))
	assert.Equal(t, "${SINKSWITCH_UNSET_VAR}", ExpandEnv("${SINKSWITCH_UNSET_VAR}"))
	assert.Equal(t, "plain", ExpandEnv("plain"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	assert.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, FileExists(path))
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
	assert.False(t, FileExists(""))
}

func TestExecutableDir(t *testing.T) {
	assert.NotEmpty(t, ExecutableDir())
}
