package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "meet-data", cfg.Paths.MeetDataDir)
	assert.Equal(t, "lifter-data", cfg.Paths.LifterDataDir)

	assert.Equal(t, runtime.NumCPU(), cfg.Checker.Workers)
	assert.False(t, cfg.Checker.WarningsAreErrors)
	assert.Equal(t, "500ms", cfg.Checker.WatchDebounce)

	assert.Equal(t, 5, cfg.Cache.RecentYears)
	assert.Equal(t, 1000, cfg.Cache.QueryLRUSize)

	assert.Equal(t, 20, cfg.Query.DefaultPageSize)
	assert.Equal(t, 100, cfg.Query.MaxPageSize)

	assert.True(t, cfg.Snapshot.Enabled)
	assert.NotEmpty(t, cfg.Snapshot.Dir)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, 8765, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
}

func TestConfig_VersionDefaultsToOne(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 1, cfg.Version)
}

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "meet-data", cfg.Paths.MeetDataDir)
}

func TestLoad_YamlFile_OverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
paths:
  meet_data_dir: custom-meets
checker:
  workers: 4
query:
  default_page_size: 10
  max_page_size: 50
`
	err := os.WriteFile(filepath.Join(tmpDir, ".oplengine.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "custom-meets", cfg.Paths.MeetDataDir)
	assert.Equal(t, 4, cfg.Checker.Workers)
	assert.Equal(t, 10, cfg.Query.DefaultPageSize)
	assert.Equal(t, 50, cfg.Query.MaxPageSize)
}

func TestLoad_YmlExtension_IsRecognized(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
server:
  log_level: warn
`
	err := os.WriteFile(filepath.Join(tmpDir, ".oplengine.yml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
}

func TestLoad_YamlPreferredOverYml(t *testing.T) {
	tmpDir := t.TempDir()
	yamlContent := "version: 1\nserver:\n  log_level: debug\n"
	ymlContent := "version: 1\nserver:\n  log_level: error\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".oplengine.yaml"), []byte(yamlContent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".oplengine.yml"), []byte(ymlContent), 0o644))

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoad_InvalidYaml_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	invalidContent := "version: 1\nchecker:\n  workers: [invalid yaml syntax\n"
	err := os.WriteFile(filepath.Join(tmpDir, ".oplengine.yaml"), []byte(invalidContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoad_InvalidFieldType_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	invalidContent := "version: 1\ncheckER:\n  workers: \"not-a-number\"\n"
	err := os.WriteFile(filepath.Join(tmpDir, ".oplengine.yaml"), []byte(invalidContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestFindProjectRoot_GitDirectory_ReturnsGitRoot(t *testing.T) {
	tmpDir := t.TempDir()
	gitDir := filepath.Join(tmpDir, ".git")
	nestedDir := filepath.Join(tmpDir, "src", "internal")
	require.NoError(t, os.Mkdir(gitDir, 0o755))
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	root, err := FindProjectRoot(nestedDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_ConfigFile_ReturnsConfigLocation(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "src", "internal")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))
	err := os.WriteFile(filepath.Join(tmpDir, ".oplengine.yaml"), []byte("version: 1"), 0o644)
	require.NoError(t, err)

	root, err := FindProjectRoot(nestedDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_MeetDataThreeUp_ReturnsThatRoot(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "meet-data"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "lifter-data"), 0o755))
	binDir := filepath.Join(tmpDir, "bin", "linux", "amd64")
	require.NoError(t, os.MkdirAll(binDir, 0o755))

	root, err := FindProjectRoot(binDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_NoMarkers_ReturnsCurrentDir(t *testing.T) {
	tmpDir := t.TempDir()

	root, err := FindProjectRoot(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestLoad_EnvVarOverridesMeetDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := "version: 1\npaths:\n  meet_data_dir: from-yaml\n"
	err := os.WriteFile(filepath.Join(tmpDir, ".oplengine.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)
	t.Setenv("OPLENGINE_MEET_DATA_DIR", "from-env")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Paths.MeetDataDir)
}

func TestLoad_EnvVarOverridesLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("OPLENGINE_LOG_LEVEL", "debug")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoad_EnvVarOverridesTransport(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("OPLENGINE_TRANSPORT", "sse")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "sse", cfg.Server.Transport)
}

func TestLoad_EnvVarEmptyString_DoesNotOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("OPLENGINE_MEET_DATA_DIR", "")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "meet-data", cfg.Paths.MeetDataDir)
}

func TestGetUserConfigPath_DefaultsToXDGLocation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path := GetUserConfigPath()

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	expected := filepath.Join(home, ".config", "oplengine", "config.yaml")
	assert.Equal(t, expected, path)
}

func TestGetUserConfigPath_RespectsXDGConfigHome(t *testing.T) {
	customConfig := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", customConfig)

	path := GetUserConfigPath()

	expected := filepath.Join(customConfig, "oplengine", "config.yaml")
	assert.Equal(t, expected, path)
}

func TestGetUserConfigDir_ReturnsParentOfConfigPath(t *testing.T) {
	dir := GetUserConfigDir()
	path := GetUserConfigPath()

	assert.Equal(t, filepath.Dir(path), dir)
}

func TestUserConfigExists_ReturnsFalseWhenMissing(t *testing.T) {
	emptyDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", emptyDir)

	assert.False(t, UserConfigExists())
}

func TestUserConfigExists_ReturnsTrueWhenPresent(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	oplengineDir := filepath.Join(configDir, "oplengine")
	require.NoError(t, os.MkdirAll(oplengineDir, 0o755))
	configPath := filepath.Join(oplengineDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1"), 0o644))

	assert.True(t, UserConfigExists())
}

func TestLoad_UserConfigOverridesDefaults(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	oplengineDir := filepath.Join(configDir, "oplengine")
	require.NoError(t, os.MkdirAll(oplengineDir, 0o755))
	userConfig := "version: 1\ncache:\n  query_lru_size: 5000\n"
	require.NoError(t, os.WriteFile(filepath.Join(oplengineDir, "config.yaml"), []byte(userConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Cache.QueryLRUSize)
}

func TestLoad_ProjectConfigOverridesUserConfig(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	oplengineDir := filepath.Join(configDir, "oplengine")
	require.NoError(t, os.MkdirAll(oplengineDir, 0o755))
	userConfig := "version: 1\npaths:\n  meet_data_dir: user-meets\n  lifter_data_dir: user-lifters\n"
	require.NoError(t, os.WriteFile(filepath.Join(oplengineDir, "config.yaml"), []byte(userConfig), 0o644))

	projectConfig := "version: 1\npaths:\n  lifter_data_dir: project-lifters\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".oplengine.yaml"), []byte(projectConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, "project-lifters", cfg.Paths.LifterDataDir)
	assert.Equal(t, "user-meets", cfg.Paths.MeetDataDir)
}

func TestLoad_EnvVarOverridesUserAndProjectConfig(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("OPLENGINE_LIFTER_DATA_DIR", "env-lifters")

	oplengineDir := filepath.Join(configDir, "oplengine")
	require.NoError(t, os.MkdirAll(oplengineDir, 0o755))
	userConfig := "version: 1\npaths:\n  lifter_data_dir: user-lifters\n"
	require.NoError(t, os.WriteFile(filepath.Join(oplengineDir, "config.yaml"), []byte(userConfig), 0o644))

	projectConfig := "version: 1\npaths:\n  lifter_data_dir: project-lifters\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".oplengine.yaml"), []byte(projectConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, "env-lifters", cfg.Paths.LifterDataDir)
}

func TestLoad_InvalidUserConfig_ReturnsError(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	oplengineDir := filepath.Join(configDir, "oplengine")
	require.NoError(t, os.MkdirAll(oplengineDir, 0o755))
	invalidConfig := "version: 1\npaths:\n  meet_data_dir: [invalid yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(oplengineDir, "config.yaml"), []byte(invalidConfig), 0o644))

	cfg, err := Load(projectDir)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "user config")
}

func TestValidate_RejectsInvalidTransport(t *testing.T) {
	cfg := NewConfig()
	cfg.Server.Transport = "carrier-pigeon"

	err := cfg.Validate()

	require.Error(t, err)
}

func TestValidate_RejectsPageSizeLargerThanMax(t *testing.T) {
	cfg := NewConfig()
	cfg.Query.DefaultPageSize = 200
	cfg.Query.MaxPageSize = 100

	err := cfg.Validate()

	require.Error(t, err)
}

func TestMergeNewDefaults_BackfillsZeroFields(t *testing.T) {
	cfg := &Config{Version: 1}

	added := cfg.MergeNewDefaults()

	assert.Contains(t, added, "cache.recent_years")
	assert.Equal(t, 5, cfg.Cache.RecentYears)
}
