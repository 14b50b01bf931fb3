//go:build windows

package cruxcli

import "github.com/cruxd/cruxd/common"

func connectionPath() string {
	return common.PipePath()
}
