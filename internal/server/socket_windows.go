//go:build windows

package server

import (
	"github.com/cruxd/cruxd/common"
)

func pipePath() string {
	return common.PipePath()
}
