package ldb

import "github.com/kaspanet/chaind/infrastructure/logger"

var log = logger.RegisterSubSystem("LDB")
