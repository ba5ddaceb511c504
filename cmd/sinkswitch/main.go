package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/777genius/sinkswitch/internal/config"
	"github.com/777genius/sinkswitch/internal/endpoint"
	"github.com/777genius/sinkswitch/internal/errorhandler"
	"github.com/777genius/sinkswitch/internal/logging"
	"github.com/777genius/sinkswitch/internal/notifier"
	"github.com/777genius/sinkswitch/internal/platform"
	"github.com/777genius/sinkswitch/internal/sink"
	"github.com/777genius/sinkswitch/internal/switcher"
)

const version = "1.0.0"

// Exit codes tell scripts which phase failed
const (
	exitOK        = 0
	exitUsage     = 1
	exitConfigure = 2
	exitEnumerate = 3
	exitResolve   = 4
	exitCommit    = 5
)

func main() {
	// logToConsole=true, exitOnCritical=false (exit codes are chosen per phase), recoveryEnabled=true
	errorhandler.Init(true, false, true)
	defer errorhandler.HandlePanic()

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 1 {
		switch args[0] {
		case "list", "-l", "--list":
			return withLogging(listSinks)
		case "version", "--version", "-v":
			fmt.Printf("sinkswitch v%s\n", version)
			return exitOK
		case "help", "--help", "-h":
			printUsage()
			return exitOK
		default:
			fmt.Fprintf(os.Stderr, "Error: expected two device names or a command, got: %s\n", args[0])
			printUsage()
			return exitUsage
		}
	}

	if len(args) > 2 {
		fmt.Fprintf(os.Stderr, "Error: too many arguments\n")
		printUsage()
		return exitUsage
	}

	return withLogging(func() int {
		return switchSinks(args)
	})
}

func withLogging(fn func() int) int {
	logger, err := logging.InitLogger(logDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logging.Close()

	logging.SetPrefix("run:" + uuid.NewString()[:8])
	code := fn()
	if code != exitOK && logger != nil {
		fmt.Fprintf(os.Stderr, "Details: %s\n", logger.Path())
	}
	return code
}

func switchSinks(args []string) int {
	cfg, err := configFor(args)
	if err != nil {
		errorhandler.HandleCriticalError(err, "Failed to load config")
		return exitConfigure
	}

	var src switcher.NeedleSource = cfg
	if len(args) == 2 {
		src = switcher.Needles{A: args[0], B: args[1]}
	}
	logging.Debug("=== Switch requested (config: %s) ===", describeSource(cfg, len(args) == 2))

	n := notifier.New(cfg)

	chosen, err := commitSwitch(src)
	if err != nil {
		errorhandler.HandleCriticalError(err, "Failed to switch default output")
		if nErr := n.Failed(err); nErr != nil {
			logging.Warn("Failure notification failed: %v", nErr)
		}
		if phase := switcher.PhaseOf(err); phase == switcher.PhaseConfigure {
			printUsage()
		}
		return exitCode(err)
	}

	fmt.Printf("Default output: %s\n", chosen.Name)

	if err := n.Switched(chosen); err != nil {
		logging.Warn("Confirmation incomplete: %v", err)
	}
	return exitOK
}

// commitSwitch holds the endpoint session only for the switch itself
func commitSwitch(src switcher.NeedleSource) (sink.Sink, error) {
	session, err := endpoint.Open()
	if err != nil {
		return sink.Empty(), &switcher.Error{Phase: switcher.PhaseEnumerate, Err: err}
	}
	defer session.Close()

	res, err := switcher.New(session.Directory()).Toggle(src)
	if err != nil {
		return sink.Empty(), err
	}

	logging.Info("Default output switched: %s -> %s", res.Previous, res.Chosen)
	return res.Chosen, nil
}

func listSinks() int {
	session, err := endpoint.Open()
	if err != nil {
		errorhandler.HandleCriticalError(err, "Failed to open audio endpoints")
		return exitEnumerate
	}
	defer session.Close()

	listing, def, err := switcher.New(session.Directory()).List()
	if err != nil {
		errorhandler.HandleCriticalError(err, "Failed to list audio endpoints")
		return exitEnumerate
	}

	if len(listing) == 0 {
		fmt.Println("No active audio output devices found.")
		return exitOK
	}

	for i, s := range listing {
		defaultMarker := ""
		if s.SameEndpoint(def) {
			defaultMarker = " (default)"
		}
		fmt.Printf("  %d: %s%s\n", i, s.Name, defaultMarker)
		fmt.Printf("     %s\n", s.ID)
	}
	return exitOK
}

// configFor loads the configuration. With both device names on the command line
// a broken config file only costs the confirmation settings, so it falls back to defaults.
func configFor(args []string) (*config.Config, error) {
	cfg, err := loadConfig()
	if err == nil || len(args) != 2 {
		return cfg, err
	}

	logging.Warn("Ignoring config, using defaults: %v", err)
	fmt.Fprintf(os.Stderr, "Warning: %v (using default settings)\n", err)
	return config.DefaultConfig(), nil
}

func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	cfg, err := config.Discover(cwd, platform.ExecutableDir())
	if err != nil {
		return nil, &switcher.Error{Phase: switcher.PhaseConfigure, Err: &switcher.ConfigurationError{Err: err}}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &switcher.Error{Phase: switcher.PhaseConfigure, Err: &switcher.ConfigurationError{Source: cfg.Source(), Err: err}}
	}
	return cfg, nil
}

func describeSource(cfg *config.Config, fromArgs bool) string {
	switch {
	case fromArgs:
		return "arguments"
	case cfg.Source() != "":
		return cfg.Source()
	default:
		return "defaults"
	}
}

func exitCode(err error) int {
	switch switcher.PhaseOf(err) {
	case switcher.PhaseConfigure:
		return exitConfigure
	case switcher.PhaseEnumerate:
		return exitEnumerate
	case switcher.PhaseResolve:
		return exitResolve
	case switcher.PhaseCommit:
		return exitCommit
	}
	var pe *endpoint.PlatformError
	if errors.As(err, &pe) {
		return exitEnumerate
	}
	return exitUsage
}

func logDir() string {
	if dir := os.Getenv("SINKSWITCH_LOG_DIR"); dir != "" {
		return dir
	}
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "sinkswitch")
	}
	return os.TempDir()
}

func printUsage() {
	fmt.Println("sinkswitch - Toggle the default audio output between two devices")
	fmt.Println()
	fmt.Printf("Version: %s\n", version)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sinkswitch <DEVICE1> <DEVICE2>")
	fmt.Println("  sinkswitch")
	fmt.Println("  sinkswitch list")
	fmt.Println("  sinkswitch version")
	fmt.Println("  sinkswitch help")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  <DEVICE1> <DEVICE2>  Make whichever device is not the current default the new default.")
	fmt.Println("                       Names are case-insensitive substrings of the device name.")
	fmt.Println("  (no arguments)       Read the two device names from the config file")
	fmt.Println("  list, -l             List active audio output devices")
	fmt.Println("  version              Show version information")
	fmt.Println("  help                 Show this help message")
	fmt.Println()
	fmt.Println("Config files (first found wins, working directory then executable directory):")
	fmt.Printf("  %s   {\"devices\": {\"first\": \"Speakers\", \"second\": \"Headset\"}}\n", config.FileName)
	fmt.Printf("  %s            two lines: first device name, second device name\n", config.LegacyFileName)
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0 switched, 1 usage, 2 configuration, 3 enumeration, 4 resolution, 5 commit")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Printf("  %s   Explicit config file path\n", config.EnvConfigPath)
	fmt.Println("  SINKSWITCH_LOG_DIR  Log directory (default: user cache dir)")
	fmt.Println("  SINKSWITCH_LOG_LEVEL  debug, info, warn or error")
	fmt.Println()
}
