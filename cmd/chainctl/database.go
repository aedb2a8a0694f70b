package main

import (
	"path/filepath"

	"github.com/kaspanet/chaind/infrastructure/config"
	"github.com/kaspanet/chaind/infrastructure/db/database"
	"github.com/kaspanet/chaind/infrastructure/db/database/bolt"
	"github.com/kaspanet/chaind/infrastructure/db/database/ldb"
	"github.com/pkg/errors"
)

const boltDBFilename = "chaind.db"

func openDatabase(cfg *config.Config) (database.Database, error) {
	log.Debugf("Opening %s database in %s", cfg.DbType, cfg.DataDir())

	switch cfg.DbType {
	case config.DbTypeLevelDB:
		return ldb.NewLevelDB(cfg.DataDir(), cfg.CacheSizeMiB)
	case config.DbTypeBolt:
		return bolt.NewBoltDB(filepath.Join(cfg.DataDir(), boltDBFilename))
	default:
		return nil, errors.Errorf("unknown database type %s", cfg.DbType)
	}
}
