package main

import (
	"fmt"
	"os"

	"github.com/kaspanet/chaind/domain/chainstate"
	"github.com/kaspanet/chaind/infrastructure/logger"
	"github.com/kaspanet/chaind/util/panics"
	"github.com/pkg/errors"
)

func main() {
	defer panics.HandlePanic(log, nil)

	subCmd, cfg, subCmdConfig, err := parseCommandLine()
	if err != nil {
		// go-flags already printed the error
		os.Exit(1)
	}
	defer logger.BackendLog.Close()

	db, err := openDatabase(cfg)
	if err != nil {
		printErrorAndExit(errors.Wrap(err, "error opening the database"))
	}
	defer db.Close()

	chainState, err := chainstate.NewFactory().NewChainState(chainstate.DefaultConfig(), db)
	if err != nil {
		printErrorAndExit(err)
	}

	switch subCmd {
	case createSubCmd:
		err = create(chainState, subCmdConfig.(*createConfig))
	case attachSubCmd:
		err = attach(chainState, subCmdConfig.(*attachConfig))
	case statusSubCmd:
		err = status(chainState, subCmdConfig.(*statusConfig))
	case irreversibleSubCmd:
		err = irreversible(chainState, subCmdConfig.(*irreversibleConfig))
	case bestSubCmd:
		err = best(chainState, subCmdConfig.(*bestConfig))
	case showSubCmd:
		err = show(chainState, subCmdConfig.(*showConfig))
	case indexSubCmd:
		err = index(chainState, subCmdConfig.(*indexConfig))
	case backlogSubCmd:
		err = backlog(chainState, subCmdConfig.(*backlogConfig))
	case pruneSubCmd:
		err = prune(chainState, subCmdConfig.(*pruneConfig))
	default:
		err = errors.Errorf("Unknown sub-command '%s'\n", subCmd)
	}

	if err != nil {
		db.Close()
		printErrorAndExit(err)
	}
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	panics.Exit(log, fmt.Sprintf("%+v", err))
}
