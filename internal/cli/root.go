// Package cli provides the prefsim command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"prefsim/internal/config"
	"prefsim/internal/dataset"
	"prefsim/internal/logging"
	"prefsim/internal/prefs"
	"prefsim/internal/similarity"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	configPath  string
	datasetPath string
	logLevel    string

	cfg         *config.Config
	table       prefs.Table
	datasetName string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "prefsim",
		Short: "Compare subjects by their ratings",
		Long: `prefsim scores how alike subjects are from the items they rated,
using Euclidean distance or Pearson correlation, and ranks the closest matches.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default ~/.prefsim/config.yaml)")
	flags.StringVarP(&a.datasetPath, "dataset", "d", "", "preference table file (.yaml, .yml, .json); default is the built-in critics table")
	flags.StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newSubjectsCmd(a),
		newScoreCmd(a),
		newTopCmd(a),
		newReportCmd(a),
		newBrowseCmd(a),
		newConfigCmd(a),
	)

	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	defer logging.Close()
	return NewRootCmd().Execute()
}

// loadConfig reads the config file and starts logging.
// logFile, when non-empty, is used if the config names no log file.
func (a *app) loadConfig(logFile string) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFrom(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = logFile
	}
	a.cfg = cfg

	return logging.InitLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
}

// load reads config and the preference table.
func (a *app) load(logFile string) error {
	if err := a.loadConfig(logFile); err != nil {
		return err
	}

	path := a.datasetPath
	if path == "" {
		path = a.cfg.Dataset.Path
	}

	if path == "" {
		a.table = dataset.Sample()
		a.datasetName = dataset.SampleName
		logging.Debug("Using built-in dataset with %d subjects", len(a.table))
		return nil
	}

	start := time.Now()
	table, info, err := dataset.Load(path)
	if err != nil {
		logging.Error("Failed to load dataset %s: %v", path, err)
		return err
	}
	a.table = table
	a.datasetName = filepath.Base(path)

	logging.Logger().Info().
		Str("path", info.Path).
		Str("format", string(info.Format)).
		Str("encoding", info.Encoding).
		Int("subjects", info.Subjects).
		Int("ratings", info.Ratings).
		Dur("took", time.Since(start)).
		Msg("Loaded dataset")
	return nil
}

// metric resolves the --metric flag, falling back to the config.
func (a *app) metric(cmd *cobra.Command, flagValue string) (string, similarity.Metric, error) {
	name := a.cfg.Ranking.Metric
	if cmd.Flags().Changed("metric") {
		name = flagValue
	}
	canonical, err := similarity.Canonical(name)
	if err != nil {
		return "", nil, err
	}
	m, err := similarity.Lookup(canonical)
	return canonical, m, err
}

// n resolves the --count flag, falling back to the config.
func (a *app) n(cmd *cobra.Command, flagValue int) int {
	if cmd.Flags().Changed("count") {
		return flagValue
	}
	return a.cfg.Ranking.N
}

// defaultLogFile places the browser's log next to the executable so it
// does not draw over the terminal UI.
func defaultLogFile() string {
	exePath, err := os.Executable()
	if err != nil {
		return filepath.Join(os.TempDir(), debugLogName())
	}
	return filepath.Join(filepath.Dir(exePath), debugLogName())
}

func debugLogName() string {
	return fmt.Sprintf("prefsim-debug-%s.log", time.Now().Format("2006-01-02"))
}
