// jsgettext extracts translatable strings from JavaScript and TypeScript
// sources into gettext PO templates.
package main

import (
	"os"

	"github.com/corey/jsgettext/cmd/jsgettext/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
