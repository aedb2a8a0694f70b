package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/chaind/infrastructure/logger"
	"github.com/kaspanet/chaind/version"
	"github.com/pkg/errors"
)

const (
	defaultConfigFilename = "chaind.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "chaind.log"
	defaultErrLogFilename = "chaind_err.log"
	defaultDbType         = DbTypeLevelDB
	defaultCacheSizeMiB   = 64
)

// Supported values of the --dbtype flag.
const (
	DbTypeLevelDB = "ldb"
	DbTypeBolt    = "bolt"
)

var (
	// DefaultAppDir is the default home directory for chaind.
	DefaultAppDir = appDataDir("chaind")

	defaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(DefaultAppDir, defaultLogDirname)
	knownDbTypes      = []string{DbTypeLevelDB, DbTypeBolt}
)

// Flags defines the configuration options for chaind.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion  bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile   string `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDir       string `short:"b" long:"appdir" description:"Directory to store data"`
	LogDir       string `long:"logdir" description:"Directory to log output."`
	DbType       string `long:"dbtype" description:"Database backend to use for the chain state {ldb, bolt}"`
	CacheSizeMiB int    `long:"cachesize" description:"LevelDB block cache size in MiB"`
	DebugLevel   string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	NoLogFiles   bool   `long:"nologfiles" description:"Disable logging to files"`
}

// Config defines the configuration options for chaind after
// defaults were applied and paths were resolved.
type Config struct {
	*Flags
}

// DataDir returns the directory that holds the chain state database.
func (cfg *Config) DataDir() string {
	return filepath.Join(cfg.AppDir, defaultDataDirname, cfg.DbType)
}

// DefaultFlags returns the flags populated with their default values.
func DefaultFlags() *Flags {
	return &Flags{
		ConfigFile:   defaultConfigFile,
		AppDir:       DefaultAppDir,
		LogDir:       defaultLogDir,
		DbType:       defaultDbType,
		CacheSizeMiB: defaultCacheSizeMiB,
		DebugLevel:   defaultLogLevel,
	}
}

// DefaultConfig returns a Config built from DefaultFlags.
func DefaultConfig() *Config {
	return &Config{Flags: DefaultFlags()}
}

// appDataDir returns the per-user directory chaind keeps its files in.
func appDataDir(appName string) string {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		return "."
	}
	return filepath.Join(configDir, appName)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// NewParser returns a go-flags parser over cfgFlags. Callers may add
// commands to it before passing it to LoadConfig.
func NewParser(cfgFlags *Flags, options flags.Options) *flags.Parser {
	return flags.NewParser(cfgFlags, options)
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// If the parser has commands, the selected command runs after the config
// was resolved and logging was initialized.
func LoadConfig(cfgFlags *Flags, parser *flags.Parser, args []string) (*Config, error) {
	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.IgnoreUnknown)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file.
	err = flags.NewIniParser(parser).ParseFile(cleanAndExpandPath(preCfg.ConfigFile))
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
	}

	cfg := &Config{Flags: cfgFlags}

	commandHandler := parser.CommandHandler
	handlerCalled := false
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		handlerCalled = true
		err := cfg.resolve()
		if err != nil {
			return err
		}
		if command == nil {
			return nil
		}
		if commandHandler != nil {
			return commandHandler(command, args)
		}
		return command.Execute(args)
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if !handlerCalled && (!errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp) {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	// Parsers without commands never call the handler.
	if !handlerCalled {
		err := cfg.resolve()
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// resolve validates the parsed options, creates the needed directories
// and initializes logging.
func (cfg *Config) resolve() error {
	funcName := "loadConfig"

	if !validDbType(cfg.DbType) {
		str := "%s: The specified database type [%s] is invalid -- " +
			"supported types %s"
		err := errors.Errorf(str, funcName, cfg.DbType, knownDbTypes)
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if cfg.CacheSizeMiB <= 0 {
		str := "%s: The cache size must be positive, got %d"
		err := errors.Errorf(str, funcName, cfg.CacheSizeMiB)
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	cfg.AppDir = cleanAndExpandPath(cfg.AppDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	err := os.MkdirAll(cfg.DataDir(), 0700)
	if err != nil {
		str := "%s: Failed to create data directory: %s"
		err := errors.Errorf(str, funcName, err)
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if cfg.NoLogFiles {
		logger.InitLogStdout(logger.LevelInfo)
	} else {
		logger.InitLog(filepath.Join(cfg.LogDir, defaultLogFilename),
			filepath.Join(cfg.LogDir, defaultErrLogFilename))
	}

	// Parse, validate, and set debug log level(s).
	err = logger.ParseAndSetLogLevels(cfg.DebugLevel)
	if err != nil {
		err := errors.Errorf("%s: %s", funcName, err.Error())
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	return nil
}
