package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/internal/reportstore"
	"github.com/scangrade/scangrade/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Stamped via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx carries cancellation for every command invocation.
var rootCtx = context.Background()

// cfg is the validated configuration shared by all subcommands.
var cfg = &contract.Config{}

// input collects raw values from flags, environment and config file
// before validation. Viper unmarshals into it.
var input = &contract.ConfigRawInput{}

// profile carries the parsed --profile state.
var profile = &contract.ProfileConfig{}

// storeManager is the process-wide persistence manager.
var storeManager contract.StoreManager

// cpuProfile is the open CPU profile output, held until stopProfiling.
var cpuProfile *os.File

// rootCmd is the entrypoint every subcommand hangs off.
var rootCmd = &cobra.Command{
	Use:   "scangrade",
	Short: "Grade scanned image quality metrics against SLA policies.",
	Long: `Scangrade turns raw image quality measurements into star-rated
report cards and compliance verdicts.

Point it at a metrics document for a single report card, or at a
directory of documents for a ranked batch. Run 'scangrade analyze --help'
to get started.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// configureConfigFile points Viper at the config file. An explicit
// --config wins, otherwise .scangrade.yaml from the working or home
// directory.
func configureConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".scangrade")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// readConfigFile loads the config file, tolerating its absence.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine; defaults, env and flags cover it.
	}
	return nil
}

// initConfig wires Viper's sources: config file, SCANGRADE_* environment
// variables and per-key defaults.
func initConfig() {
	configureConfigFile()

	viper.SetEnvPrefix("SCANGRADE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for key, value := range map[string]any{
		"limit":            contract.DefaultResultLimit,
		"workers":          contract.DefaultWorkers,
		"precision":        contract.DefaultPrecision,
		"output":           schema.TextOut,
		"pattern":          contract.DefaultPattern,
		"cache-backend":    schema.SQLiteBackend,
		"cache-db-connect": "",
		"runs-backend":     "",
		"runs-db-connect":  "",
		"emoji":            "no",
		"color":            "yes",
	} {
		viper.SetDefault(key, value)
	}
}

// loadConfigFile is the light setup for commands that only need the
// config file, not the full validation pipeline.
func loadConfigFile() error {
	configureConfigFile()
	return readConfigFile()
}

// sharedSetup resolves, validates and applies configuration before a
// grading command runs. It doubles as Cobra's PreRunE.
func sharedSetup(_ *cobra.Command, args []string) error {
	if err := contract.ProcessProfilingConfig(profile, viper.GetString("profile")); err != nil {
		return fmt.Errorf("profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("start profiling: %w", err)
		}
	}

	// Merge defaults, file, env and flags, then unmarshal the result.
	if err := readConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("decode config values: %w", err)
	}

	// Viper never sees positional arguments.
	input.InputPathStr = "."
	if len(args) == 1 {
		input.InputPathStr = args[0]
	}

	// Populates cfg from input once everything validates.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	if err := reportstore.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("open stores: %w", err)
	}

	return nil
}

// startProfiling begins CPU profiling and announces the output files.
// Callers check profile.Enabled first.
func startProfiling() error {
	f, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("start CPU profile: %w", err)
	}
	cpuProfile = f

	_, err = fmt.Fprintf(os.Stdout, "Profiling to %s.cpu.prof and %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling ends CPU profiling and captures a heap snapshot.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()
	if cpuProfile != nil {
		_ = cpuProfile.Close()
		cpuProfile = nil
	}

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("write heap profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stdout, "Profiles written; inspect with go tool pprof %s.cpu.prof\n", profile.Prefix)
	return err
}

// Execute dispatches to the selected subcommand.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager installs the persistence manager used by all commands.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// StopProfiling flushes profiles if profiling was enabled.
func StopProfiling() error {
	return stopProfiling()
}
