package bestchainmanager

import (
	"github.com/kaspanet/chaind/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CHST")
