package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"prefsim/internal/config"
	"prefsim/internal/logging"
	"prefsim/internal/prefs"
	"prefsim/internal/rank"
	"prefsim/internal/report"
	"prefsim/internal/similarity"
	"prefsim/internal/ui"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

func newSubjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List the subjects in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(""); err != nil {
				return err
			}

			rows := make([][]string, 0, len(a.table))
			for _, s := range a.table.Subjects() {
				rows = append(rows, []string{string(s), strconv.Itoa(len(a.table[s]))})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Dataset: %s\n", a.datasetName)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Subject", "Rated items"}, rows))
			return nil
		},
	}
}

func newScoreCmd(a *app) *cobra.Command {
	var metricFlag string

	cmd := &cobra.Command{
		Use:   "score <subject-a> <subject-b>",
		Short: "Score how alike two subjects are",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(""); err != nil {
				return err
			}

			name, metric, err := a.metric(cmd, metricFlag)
			if err != nil {
				return err
			}

			sa, sb := prefs.SubjectID(args[0]), prefs.SubjectID(args[1])
			score, err := metric(a.table, sa, sb)
			if err != nil {
				return err
			}
			shared, err := prefs.SharedItems(a.table, sa, sb)
			if err != nil {
				return err
			}

			logging.Debug("Scored %q vs %q with %s: %f over %d items", sa, sb, name, score, len(shared))
			fmt.Fprintf(cmd.OutOrStdout(), "%s(%s, %s) = %.6f  [%d shared items]\n", name, sa, sb, score, len(shared))
			return nil
		},
	}

	cmd.Flags().StringVarP(&metricFlag, "metric", "m", similarity.DefaultName, "similarity metric: "+metricNames())
	return cmd
}

func newTopCmd(a *app) *cobra.Command {
	var (
		metricFlag string
		nFlag      int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "top <subject>",
		Short: "Rank the subjects most similar to a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(""); err != nil {
				return err
			}

			name, metric, err := a.metric(cmd, metricFlag)
			if err != nil {
				return err
			}
			n := a.n(cmd, nFlag)

			matches, err := rank.TopMatches(a.table, prefs.SubjectID(args[0]), n, metric)
			if err != nil {
				return err
			}
			logging.Info("Ranked %d matches for %q with %s", len(matches), args[0], name)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(matches)
			}

			rows := make([][]string, len(matches))
			for i, m := range matches {
				rows[i] = []string{strconv.Itoa(i + 1), string(m.Subject), strconv.FormatFloat(m.Score, 'f', 6, 64)}
			}
			if len(matches) < n {
				fmt.Fprintf(out, "Top %d for %s (%s, %d requested)\n", len(matches), args[0], name, n)
			} else {
				fmt.Fprintf(out, "Top %d for %s (%s)\n", len(matches), args[0], name)
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Subject", "Score"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&metricFlag, "metric", "m", similarity.DefaultName, "similarity metric: "+metricNames())
	cmd.Flags().IntVarP(&nFlag, "count", "n", rank.DefaultN, "number of matches")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		metricFlag string
		nFlag      int
		raw        bool
		width      int
	)

	cmd := &cobra.Command{
		Use:   "report <subject>",
		Short: "Print a Markdown report of a subject's top matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(""); err != nil {
				return err
			}

			name, _, err := a.metric(cmd, metricFlag)
			if err != nil {
				return err
			}

			r, err := report.Build(a.table, a.datasetName, prefs.SubjectID(args[0]), a.n(cmd, nFlag), name)
			if err != nil {
				return err
			}
			logging.Info("Built report %s for %q", r.ID, args[0])

			md := r.Markdown()
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Render(md, width))
			return nil
		},
	}

	cmd.Flags().StringVarP(&metricFlag, "metric", "m", similarity.DefaultName, "similarity metric: "+metricNames())
	cmd.Flags().IntVarP(&nFlag, "count", "n", rank.DefaultN, "number of matches")
	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown without rendering")
	cmd.Flags().IntVar(&width, "width", 100, "wrap width for rendered output")
	return cmd
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse subjects and their matches interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(defaultLogFile()); err != nil {
				return err
			}
			return ui.Run(a.table, a.datasetName, a.cfg)
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				p, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				path = p
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveTo(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(""); err != nil {
				return err
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func metricNames() string {
	return strings.Join(similarity.Names(), ", ")
}
