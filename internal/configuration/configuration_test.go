package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInitializesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", config.APIURL)
	require.Equal(t, 30, config.RequestTimeout)
	require.Equal(t, 30, config.PollInterval)
	require.Equal(t, 50, config.Chat.ConversationLimit)
	require.Equal(t, 100, config.Chat.MessageLimit)

	// The file must now exist so a later run parses the same values.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParseMergesDefaultsIntoPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_url": "https://tasks.example.com/"}`), 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "https://tasks.example.com", config.APIURL)
	require.Equal(t, 30, config.PollInterval)
	require.NotNil(t, config.Chat)
	require.Equal(t, 100, config.Chat.MessageLimit)
}

func TestParseMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Parse(path)
	require.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("TASKFLOW_API_URL", "http://10.0.0.5:9000/")
	t.Setenv("TASKFLOW_POLL_INTERVAL", "5")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "http://10.0.0.5:9000", config.APIURL)
	require.Equal(t, 5, config.PollInterval)
}
