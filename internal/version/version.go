// Package version хранит сведения о сборке, заполняемые через -ldflags:
//
//	-X github.com/vladislavdragonenkov/partshop/internal/version.version=v1.2.0
//	-X github.com/vladislavdragonenkov/partshop/internal/version.commit=$(git rev-parse --short HEAD)
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Build — сведения о сборке магазина.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// Info возвращает сведения о текущей сборке.
func Info() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

// String печатается при старте shop-service и командой shopctl version.
func String() string {
	return Info().String()
}

func (b Build) String() string {
	return fmt.Sprintf("partshop version=%s commit=%s date=%s", b.Version, b.Commit, b.Date)
}
