package cruxcli

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/cruxd/cruxd/common"
)

// dialFunc points to net.Dial so tests can substitute a fake.
var dialFunc = net.Dial

func tcpPort() int {
	if port := os.Getenv(common.TCPPortEnv); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			if p >= 1 && p <= 65535 {
				return p
			}
			debugLog("invalid TCP port %d, using default %d", p, common.DefaultTCPPort)
		}
	}
	return common.DefaultTCPPort
}

func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) == "1"
}

func debugMode() bool {
	return os.Getenv(common.DebugEnv) == "1"
}

func tcpAddress() string {
	return fmt.Sprintf("%s:%d", common.TCPHost, tcpPort())
}

func debugLog(format string, args ...any) {
	if debugMode() {
		log.Printf(format, args...)
	}
}
