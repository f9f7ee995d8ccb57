package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/compilations/internal/paths"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DataDir         string `yaml:"data_dir,omitempty"`
	FileName        string `yaml:"file_name,omitempty"`
	ClassifyTimeout string `yaml:"classify_timeout"`
	Verbose         bool   `yaml:"verbose"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the shared data directory",
		Long: "Create the configuration directory with a default config.yaml, then create\n" +
			"the shared data directory. Running init again leaves existing files alone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	// Only an explicit --data-dir is recorded, so the env override keeps
	// working for configs written without one.
	configPath := filepath.Join(configDir, configFileExt)
	written, err := writeConfigIfMissing(configPath, a.flags.dataDir)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if written {
		// Pick up the file just written so later resolution sees it.
		if a.config, err = loadConfig(configDir); err != nil {
			return sysError(err)
		}
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, map[string]string{
			"config": configPath,
			"store":  s.Path(),
		})
	}
	fmt.Fprintln(out, "Compilations initialized successfully")
	fmt.Fprintln(out, "  config:", configPath)
	fmt.Fprintln(out, "  store: ", s.Path())
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether a file was written.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err != nil {
			return false, err
		}
		dataDir = abs
	}
	cfg := configFile{
		DataDir:         dataDir,
		ClassifyTimeout: "5s",
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
