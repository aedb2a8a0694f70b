package executionmanager

import (
	"github.com/kaspanet/chaind/infrastructure/logger"
)

var log = logger.RegisterSubSystem("EXEC")
