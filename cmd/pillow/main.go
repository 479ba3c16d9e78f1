package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/pes18fan/pillow/config"
	"github.com/pes18fan/pillow/game"
	"github.com/pes18fan/pillow/logging"
	"github.com/pes18fan/pillow/termimg"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd(fs afero.Fs) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "pillow [file]",
		Short: "Pass the pillow",
		Long: "Plays a track and stops it after a random while. Whoever holds the pillow when\n" +
			"the music stops is out. The first round lasts the warm-up window, every later\n" +
			"round a random time between --min and --max.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Setup(fs)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return run(fs, file, debug || len(os.Getenv("DEBUG")) > 0)
		},
	}

	flags := cmd.Flags()
	flags.Duration("warmup", game.DefaultWarmup, "length of the first round")
	flags.Duration("min", game.DefaultMinInterrupt, "shortest length of later rounds")
	flags.Duration("max", game.DefaultMaxInterrupt, "longest length of later rounds (exclusive)")
	flags.Bool("dark", false, "start with the dark theme")
	flags.BoolVar(&debug, "debug", false, "write logs to the log file")

	lo.Must0(viper.BindPFlag(config.KeyWarmup, flags.Lookup("warmup")))
	lo.Must0(viper.BindPFlag(config.KeyInterruptMin, flags.Lookup("min")))
	lo.Must0(viper.BindPFlag(config.KeyInterruptMax, flags.Lookup("max")))
	lo.Must0(viper.BindPFlag(config.KeyThemeDark, flags.Lookup("dark")))

	cc.Init(&cc.Config{
		RootCmd:       cmd,
		Headings:      cc.HiCyan + cc.Bold + cc.Underline,
		Commands:      cc.HiYellow + cc.Bold,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Flags:         cc.Bold,
		FlagsDataType: cc.Italic + cc.HiBlue,
	})

	return cmd
}

func run(fs afero.Fs, file string, debug bool) error {
	closer, err := logging.Setup(fs, debug, viper.GetString(config.KeyLogFile), viper.GetString(config.KeyLogLevel))
	if err != nil {
		return err
	}
	defer closer.Close()

	settings, err := config.Settings()
	if err != nil {
		return err
	}

	statusChan := make(chan game.Status, 16)
	session := game.NewSession(settings, game.WithNotify(func(s game.Status) {
		statusChan <- s
	}))
	defer session.Close()

	p := tea.NewProgram(
		initialModel(fs, session, statusChan, config.DarkTheme(), file),
		tea.WithAltScreen(),
	)
	logrus.WithFields(logrus.Fields{
		"warmup": settings.Warmup,
		"min":    settings.MinInterrupt,
		"max":    settings.MaxInterrupt,
	}).Info("set up tea program")

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tea program got error: %w", err)
	}
	// Kitty images can outlive the alt screen.
	termimg.ClearScreen()
	return nil
}

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}
