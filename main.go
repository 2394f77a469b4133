// Package main provides the entry point for the Mantra CLI application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/mantra-miner/miner"
	"github.com/dgnsrekt/mantra-miner/ui"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	tui         bool
	interval    time.Duration
	repeats     int
	preparation string
	conclusion  string
	mantraArgs  []string
	width       uint
	debug       bool

	rootCmd = &cobra.Command{
		Use:   "mantra",
		Short: "Recite mantras in the background, with devotion!",
		Long: paragraph(
			fmt.Sprintf("\nRecite mantras on the CLI, %s. Text is written syllable by syllable on a fixed cadence until the session completes or you stop it.", keyword("one syllable at a time")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	tui = viper.GetBool("tui")
	debug = viper.GetBool("debug")
	width = viper.GetUint("width")

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))

	// Detect terminal width
	if !cmd.Flags().Changed("width") { //nolint:nestif
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}

			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}

	if tui && !isTerminal {
		return fmt.Errorf("cannot use tui mode without a terminal")
	}
	return nil
}

// sessionConfig assembles the recitation config from Viper and any
// command-line overrides.
func sessionConfig(cmd *cobra.Command) (miner.Config, error) {
	cfg, err := miner.LoadConfigFromViper()
	if err != nil && len(mantraArgs) == 0 {
		return cfg, err
	}

	if cmd.Flags().Changed("mantra") {
		cfg.Mantras = nil
		for _, m := range mantraArgs {
			cfg.Mantras = append(cfg.Mantras, miner.Mantra{Text: m})
		}
	}
	if cmd.Flags().Changed("preparation") {
		cfg.Preparation = preparation
	}
	if cmd.Flags().Changed("conclusion") {
		cfg.Conclusion = conclusion
	}
	if cmd.Flags().Changed("repeats") {
		cfg.Repeats = repeats
	}
	if cmd.Flags().Changed("interval") {
		cfg.Interval = interval
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func execute(cmd *cobra.Command, _ []string) error {
	cfg, err := sessionConfig(cmd)
	if err != nil {
		return err
	}

	m, err := miner.New(cfg)
	if err != nil {
		return err
	}

	if tui {
		return runTUI(m)
	}
	return runPlain(m)
}

// runPlain recites to stdout without the TUI: units are streamed as they
// land in the buffer, and a summary is printed when the session ends.
func runPlain(m *miner.Miner) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	started := time.Now()
	if err := m.Start(); err != nil {
		return err
	}

	poll := m.Config().Interval / 2
	if poll < time.Millisecond {
		poll = time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	printed := 0
	flush := func() {
		snap := m.Buffer().Snapshot()
		if len(snap) > printed {
			fmt.Print(snap[printed:])
			printed = len(snap)
		}
	}

loop:
	for {
		select {
		case <-ctx.Done():
			if err := m.Stop(); err != nil {
				return err
			}
			break loop
		case <-m.Done():
			break loop
		case <-ticker.C:
			flush()
		}
	}
	flush()
	fmt.Println()

	return printSummary(os.Stdout, m, time.Since(started))
}

func printSummary(w io.Writer, m *miner.Miner, elapsed time.Duration) error {
	buf := m.Buffer()
	parts := []string{
		fmt.Sprintf("cycles: %d", m.Count()),
		fmt.Sprintf("units: %d", buf.Units()),
		fmt.Sprintf("recited: %s", humanize.Bytes(uint64(buf.Len()))), //nolint:gosec
		fmt.Sprintf("elapsed: %s", elapsed.Round(time.Millisecond)),
	}
	summary := wordwrap.String(strings.Join(parts, "  "), int(width)) //nolint:gosec
	if _, err := fmt.Fprintln(w, subtle(summary)); err != nil {
		return fmt.Errorf("unable to write summary: %w", err)
	}
	return nil
}

func runTUI(m *miner.Miner) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.MaxWidth = width

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, m).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	miner.SetDefaults()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().BoolVarP(&tui, "tui", "t", false, "display with tui")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", 100*time.Millisecond, "delay between text units")
	rootCmd.Flags().IntVarP(&repeats, "repeats", "r", 1, "number of full recitations (0 repeats forever)")
	rootCmd.Flags().StringArrayVarP(&mantraArgs, "mantra", "m", nil, "mantra text (may be given multiple times)")
	rootCmd.Flags().StringVar(&preparation, "preparation", "", "text recited once before the mantras")
	rootCmd.Flags().StringVar(&conclusion, "conclusion", "", "text recited once after the mantras")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap at width (set to 0 to detect)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "debug logging")
	_ = rootCmd.Flags().MarkHidden("debug")

	// Config bindings
	_ = viper.BindPFlag("tui", rootCmd.Flags().Lookup("tui"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))

	viper.SetDefault("width", 0)
	viper.SetDefault("tui", false)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "mantra")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "mantra")}, dirs...)
	}

	if c := os.Getenv("MANTRA_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("mantra")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("mantra")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "mantra.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
