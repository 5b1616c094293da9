// Command cmsctl is the operator tool for cms-backend: it migrates the
// database, creates admin users, seeds the studio profile and prints route
// tables.
//
//	$ cmsctl migrate
//	$ cmsctl user create --email admin@blich.studio --name Admin --password '...'
//	$ cmsctl studio seed studio.yaml
//	$ cmsctl routes gateway > docs/gateway-routes.md
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
