package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/forgeenv/mobiledev/internal/config"
	"github.com/forgeenv/mobiledev/pkg/logging"
	"github.com/forgeenv/mobiledev/pkg/provision"
	"github.com/forgeenv/mobiledev/pkg/provision/envfile"
)

const version = "0.4.0"

var (
	configPath   string
	installDir   string
	flutterDir   string
	profilePath  string
	sdkURL       string
	sdkVersion   string
	logLevel     string
	withWaydroid bool
	assumeYes    bool
	versionFlag  bool
	rootCmd      *cobra.Command
)

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "mobiledev-setup",
		Short: "Provision a Linux workstation for Flutter/Android development",
		Long: `Provision a Linux workstation for Flutter/Android development:
OS packages, the Android command-line tools SDK, the Flutter SDK,
shell environment exports, and optionally Waydroid.`,
		RunE: runSetup,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config.toml (default: ~/.config/mobiledev/config.toml)")
	rootCmd.Flags().StringVar(&installDir, "install-dir", "", "Android SDK install directory")
	rootCmd.Flags().StringVar(&flutterDir, "flutter-dir", "", "Flutter SDK install directory")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "Shell profile file to append exports to")
	rootCmd.Flags().StringVar(&sdkURL, "sdk-url", "", "Pinned command-line tools archive URL (skips scraping)")
	rootCmd.Flags().StringVar(&sdkVersion, "sdk-version", "", "Pinned command-line tools version (skips scraping)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&withWaydroid, "waydroid", false, "Install Waydroid without prompting")
	rootCmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Answer yes to all prompts")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("mobiledev-setup %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSetup(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Printf("mobiledev-setup %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	logger := logging.NewLogger("mobiledev-setup", level, nil)

	if !cfg.Waydroid {
		cfg.Waydroid = promptWaydroid()
	}

	p := provision.New(cfg, logger)
	if err := p.Run(cmd.Context()); err != nil {
		return err
	}

	profile := cfg.Profile
	if profile == "" {
		profile = envfile.DetectProfile()
	}
	color.Green("✅ Workstation provisioned")
	color.Yellow("Reload your shell profile to pick up the new environment, e.g. source %s", profile)
	return nil
}

func loadConfig() (*config.Config, error) {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Flags override file values
	if installDir != "" {
		cfg.InstallDir = installDir
	}
	if flutterDir != "" {
		cfg.FlutterDir = flutterDir
	}
	if profilePath != "" {
		cfg.Profile = profilePath
	}
	if sdkURL != "" {
		cfg.SDK.URL = sdkURL
	}
	if sdkVersion != "" {
		cfg.SDK.Version = sdkVersion
	}
	if withWaydroid {
		cfg.Waydroid = true
	}
	return cfg, nil
}

// promptWaydroid asks a single yes/no question. --assume-yes answers yes;
// a non-interactive stdin answers no.
func promptWaydroid() bool {
	if assumeYes {
		return true
	}
	if stat, err := os.Stdin.Stat(); err != nil || stat.Mode()&os.ModeCharDevice == 0 {
		return false
	}

	color.Cyan("Install Waydroid for running Android apps on the desktop? [y/N] ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
