// Package cli implements the compilations command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/compilations/internal/library"
	"github.com/mesh-intelligence/compilations/internal/logging"
	"github.com/mesh-intelligence/compilations/internal/paths"
	"github.com/mesh-intelligence/compilations/pkg/compilations"
	"github.com/mesh-intelligence/compilations/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app carries the state shared by one invocation of the root command.
type app struct {
	flags  rootFlags
	config *viper.Viper
	logger *zap.Logger
}

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// NewRootCmd creates the top-level "compilations" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "compilations",
		Short: "Collect links, images, and notes into named compilations",
		Long: "Compilations keeps named collections of links, images, and text notes\n" +
			"in one JSON file that every tool sharing the data directory can read.",
		Version: compilations.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "shared data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newRenameCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newEditLinkCmd(a))
	root.AddCommand(newRemoveItemCmd(a))
	root.AddCommand(newShareCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newWatchCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "compilations:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps an error to a process exit code. Unreadable or corrupt
// storage is a system error; everything else is the user's to fix.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var pathErr *fs.PathError
	if errors.Is(err, types.ErrDecodeFailed) || errors.As(err, &pathErr) {
		return exitSysError
	}
	return exitUserError
}

// setup loads config.yaml and builds the logger.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.config = cfg

	if a.logger == nil {
		logger, err := logging.New(a.flags.verbose || cfg.GetBool(cfgKeyVerbose))
		if err != nil {
			return sysError(err)
		}
		a.logger = logger
	}
	return nil
}

// storeConfig resolves the data directory and returns the store config.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	return types.Config{
		Backend:  types.BackendFile,
		DataDir:  dataDir,
		FileName: a.config.GetString(cfgKeyFileName),
	}, nil
}

// openStore opens the store in the resolved data directory.
func (a *app) openStore() (compilations.Store, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, err
	}
	s, err := compilations.Open(cfg, a.logger)
	if err != nil {
		return nil, sysError(fmt.Errorf("open store: %w", err))
	}
	return s, nil
}

// openLibrary opens the store and wraps it in a Library.
func (a *app) openLibrary() (*library.Library, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return library.New(s, a.logger), nil
}
