// Command passgen prints random passwords and issues API tokens for the
// passgen HTTP service.
package main

import (
	"os"

	"github.com/atotto/clipboard"
	"github.com/vaultpass/passgen-go/internal/service"
)

func main() {
	cmd := newRootCmd(deps{
		svc:  service.NewGeneratorService(),
		copy: clipboard.WriteAll,
	})
	if err := cmd.Execute(); err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}
