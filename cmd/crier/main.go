package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/crier/internal/app"
	"github.com/five82/crier/internal/filter"
	"github.com/five82/crier/internal/filterstore"
	"github.com/five82/crier/internal/wordcolor"
)

var (
	configPath string
	prefsPath  string
	logFile    string
	poll       time.Duration
	verbose    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "crier: %v\n", err)
		return 1
	}
	return 0
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crier",
		Short:         "Sort game log announcements into windows",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runWatch,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/crier/config.toml)")
	flags.DurationVar(&poll, "poll", 0, "log poll interval, overrides poll_ms")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.StringVar(&prefsPath, "prefs", "", "UI preferences file (default ~/.config/crier/prefs.toml)")
	flags.StringVar(&logFile, "log-file", "", "diagnostic log for the TUI (default ~/.local/state/crier/crier.log)")

	root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Open the windowed viewer (default)",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	})
	root.AddCommand(tailCmd())
	root.AddCommand(classifyCmd())
	root.AddCommand(checkCmd())
	return root
}

func options() app.Options {
	return app.Options{ConfigPath: configPath, PrefsPath: prefsPath, PollInterval: poll}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	file, err := app.OpenLogFile(logFile)
	if err != nil {
		return err
	}
	defer file.Close()
	app.SetupLogging(file, verbose)
	return app.Run(cmd.Context(), options())
}

func tailCmd() *cobra.Command {
	var tail app.TailOptions
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print routed announcements to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.SetupLogging(os.Stderr, verbose)
			return app.Tail(cmd.Context(), options(), cmd.OutOrStdout(), tail)
		},
	}
	cmd.Flags().IntSliceVarP(&tail.Destinations, "window", "w", nil, "window ids to print (default all)")
	cmd.Flags().BoolVar(&tail.ShowTags, "tags", true, "prefix lines with their group and category")
	cmd.Flags().BoolVar(&tail.ShowDestination, "show-window", false, "prefix lines with the window id")
	return cmd
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [line...]",
		Short: "Classify lines from arguments or stdin without routing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.SetupLogging(os.Stderr, verbose)
			out := cmd.OutOrStdout()
			e, writer, err := app.Classify(cmd.Context(), options(), out)
			if err != nil {
				return err
			}
			each := func(line string) {
				rec, spans, ok := e.Classify(line)
				if !ok {
					fmt.Fprintf(out, "-\t%s\n", line)
					return
				}
				fmt.Fprintf(out, "%s\t%s\n", rec.Tag, writer.Format(rec.Tag, spans, ""))
			}
			if len(args) > 0 {
				for _, line := range args {
					each(line)
				}
				return nil
			}
			return scanLines(cmd.InOrStdin(), each)
		},
	}
}

func scanLines(in io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fn(strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the filters, visibility and words files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.SetupLogging(os.Stderr, verbose)
			cfg, err := app.LoadConfig(options())
			if err != nil {
				return err
			}
			store, err := filterstore.New(cfg.FiltersPath, cfg.VisibilityPath)
			if err != nil {
				return err
			}
			model, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			words, err := wordcolor.Load(cfg.WordsPath)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), model, words, len(cfg.Windows))
		},
	}
}

func report(out io.Writer, model *filter.Model, words wordcolor.Table, windows int) error {
	w := bufio.NewWriter(out)
	for _, g := range model.Groups() {
		fmt.Fprintf(w, "%s %s\n", g.Name, g.Color)
		for _, c := range g.Categories {
			show := c.Show()
			var shown []string
			for _, id := range show.IDs() {
				if !show[id] {
					continue
				}
				mark := ""
				if id >= windows {
					mark = "?"
				}
				shown = append(shown, fmt.Sprintf("%d%s", id, mark))
			}
			fmt.Fprintf(w, "  %-20s %d patterns  windows [%s]\n", c.Name, len(c.Patterns()), strings.Join(shown, " "))
		}
	}
	var missing []string
	for group, table := range words.Words {
		for word, color := range table {
			if _, ok := words.Color(color); !ok {
				missing = append(missing, fmt.Sprintf("%s/%s -> %s", group, word, color))
			}
		}
	}
	sort.Strings(missing)
	fmt.Fprintf(w, "%d groups, %d categories, %d colors\n", len(model.Groups()), len(model.Tags()), len(words.Colors))
	for _, m := range missing {
		fmt.Fprintf(w, "warning: undefined color %s\n", m)
	}
	return w.Flush()
}
