// This program performs administrative tasks against a node's block storage.
package main

import (
	"fmt"
	"os"

	"github.com/ardanlabs/powledger/app/tooling/admin/cmd"
	"github.com/ardanlabs/powledger/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cmd.NewRootCmd(build, log).Execute(); err != nil {
		log.Sync()
		os.Exit(1)
	}
}
