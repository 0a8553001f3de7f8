// chanstats - IRC channel log statistics
//
// chanstats parses a directory of daily chat-log files into a
// normalized set of per-nick and per-channel metrics, caching per-day
// results so repeated runs only re-parse changed files.
package main

import (
	"os"

	"github.com/rustycloud/chanstats/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
