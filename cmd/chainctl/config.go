package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/chaind/infrastructure/config"
)

const (
	createSubCmd       = "create"
	attachSubCmd       = "attach"
	statusSubCmd       = "status"
	irreversibleSubCmd = "irreversible"
	bestSubCmd         = "best"
	showSubCmd         = "show"
	indexSubCmd        = "index"
	backlogSubCmd      = "backlog"
	pruneSubCmd        = "prune"
)

// ChainFlags holds the flag every sub-command shares
type ChainFlags struct {
	ChainID uint32 `long:"chain" short:"c" description:"The id of the chain" required:"true"`
}

type createConfig struct {
	ChainFlags
	Genesis string `long:"genesis" short:"g" description:"The hash of the genesis block (encoded in hex)" required:"true"`
}

type attachConfig struct {
	ChainFlags
	Height uint64 `long:"height" short:"t" description:"The height of the block" required:"true"`
	Hash   string `long:"hash" short:"s" description:"The hash of the block (encoded in hex)" required:"true"`
	Parent string `long:"parent" short:"p" description:"The hash of the parent block (encoded in hex)" required:"true"`
}

type statusConfig struct {
	ChainFlags
	Hash   string `long:"hash" short:"s" description:"The hash of the executed block (encoded in hex)" required:"true"`
	Status string `long:"status" description:"The outcome of the execution {succeeded, failed}" required:"true"`
}

type irreversibleConfig struct {
	ChainFlags
	Hash string `long:"hash" short:"s" description:"The hash of the new last irreversible block (encoded in hex)" required:"true"`
}

type bestConfig struct {
	ChainFlags
	Height uint64 `long:"height" short:"t" description:"The height of the best block" required:"true"`
	Hash   string `long:"hash" short:"s" description:"The hash of the best block (encoded in hex)" required:"true"`
}

type showConfig struct {
	ChainFlags
}

type indexConfig struct {
	ChainFlags
	Height uint64 `long:"height" short:"t" description:"The irreversible height to look up" required:"true"`
}

type backlogConfig struct {
	ChainFlags
	Hash string `long:"hash" short:"s" description:"The hash of the block to get the backlog of (encoded in hex)" required:"true"`
}

type pruneConfig struct {
	ChainFlags
}

func parseCommandLine() (subCommand string, cfg *config.Config, subCommandConfig interface{}, err error) {
	cfgFlags := config.DefaultFlags()
	parser := config.NewParser(cfgFlags, flags.PrintErrors|flags.HelpFlag)

	createConf := &createConfig{}
	parser.AddCommand(createSubCmd, "Creates a new chain",
		"Creates a new chain whose only block is the given genesis block", createConf)

	attachConf := &attachConfig{}
	parser.AddCommand(attachSubCmd, "Attaches a block to a chain",
		"Links the given block to its parent, or parks it until its parent is attached", attachConf)

	statusConf := &statusConfig{}
	parser.AddCommand(statusSubCmd, "Reports the execution status of a block",
		"Records whether the execution of the given block succeeded or failed", statusConf)

	irreversibleConf := &irreversibleConfig{}
	parser.AddCommand(irreversibleSubCmd, "Advances the last irreversible block",
		"Marks the given ancestor of the longest chain tip as irreversible and indexes the blocks below it",
		irreversibleConf)

	bestConf := &bestConfig{}
	parser.AddCommand(bestSubCmd, "Advances the best chain",
		"Points the best chain at the given block", bestConf)

	showConf := &showConfig{}
	parser.AddCommand(showSubCmd, "Shows a chain",
		"Shows the tip pointers and the parked blocks of a chain", showConf)

	indexConf := &indexConfig{}
	parser.AddCommand(indexSubCmd, "Shows the irreversible block at a height",
		"Shows the hash of the irreversible block at the given height", indexConf)

	backlogConf := &backlogConfig{}
	parser.AddCommand(backlogSubCmd, "Shows the blocks waiting for execution",
		"Shows, in execution order, the not executed blocks up to the given block", backlogConf)

	pruneConf := &pruneConfig{}
	parser.AddCommand(pruneSubCmd, "Prunes stale forks",
		"Removes the blocks of forks below the last irreversible block", pruneConf)

	cfg, err = config.LoadConfig(cfgFlags, parser, os.Args[1:])
	if err != nil {
		return "", nil, nil, err
	}

	switch parser.Command.Active.Name {
	case createSubCmd:
		subCommandConfig = createConf
	case attachSubCmd:
		subCommandConfig = attachConf
	case statusSubCmd:
		subCommandConfig = statusConf
	case irreversibleSubCmd:
		subCommandConfig = irreversibleConf
	case bestSubCmd:
		subCommandConfig = bestConf
	case showSubCmd:
		subCommandConfig = showConf
	case indexSubCmd:
		subCommandConfig = indexConf
	case backlogSubCmd:
		subCommandConfig = backlogConf
	case pruneSubCmd:
		subCommandConfig = pruneConf
	}
	return parser.Command.Active.Name, cfg, subCommandConfig, nil
}
