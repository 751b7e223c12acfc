package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJson = `[
    {"name": "Zulrah", "api_name": "zulrah", "level": 725, "location": "Zul-Andra"},
    {"name": "Vorkath", "api_name": "vorkath", "level": 732, "location": "Ungael"},
    {"name": "Scorpia", "api_name": "scorpia", "level": 225, "location": "Wilderness"},
    {"name": "Obor", "api_name": "obor", "level": 106, "location": "Edgeville Dungeon"}
]`

func setup(t *testing.T) (string, string) {
	for _, key := range []string{"BOSSBOT_CONFIG", "BOSSBOT_TOKEN", "BOSSBOT_DATA_DIR", "BOSSBOT_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	content, err := json.Marshal(map[string]any{
		"discord":   map[string]any{"token": "token"},
		"paths":     map[string]any{"data_dir": dataDir},
		"log_level": "error",
	})
	require.NoError(t, err)
	configFile := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(configFile, content, 0o644))
	return configFile, dataDir
}

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBossesCommand(t *testing.T) {
	configFile, dataDir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "local_bosses.json"), []byte(catalogJson), 0o644))

	out, err := execute(t, "bosses", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Zulrah | 725 | Zul-Andra (zulrah)\n")
	assert.Contains(t, out, "Obor | 106 | Edgeville Dungeon (obor)\n")
}

func TestBossesCommandWithoutCatalog(t *testing.T) {
	configFile, _ := setup(t)
	_, err := execute(t, "bosses", "--config", configFile)
	assert.ErrorContains(t, err, "not found")
}

func TestSessionCommand(t *testing.T) {
	configFile, dataDir := setup(t)

	out, err := execute(t, "session", "-c", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Phase: No Session (since None)")
	assert.Contains(t, out, "Current boss: None")

	stored := `{"phase": "voting_closed", "current_boss": {"name": "Zulrah", "api_name": "zulrah", "level": 725, "location": "Zul-Andra"}, "used_bosses": []}`
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "session_data.json"), []byte(stored), 0o644))
	out, err = execute(t, "session", "-c", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Phase: Close Voting")
	assert.Contains(t, out, "Current boss: Zulrah | 725 | Zul-Andra")
}

func TestInvalidConfig(t *testing.T) {
	configFile, _ := setup(t)
	require.NoError(t, os.WriteFile(configFile, []byte(`{"discord": {"token": ""}}`), 0o644))
	_, err := execute(t, "session", "--config", configFile)
	assert.ErrorContains(t, err, "token")
}
