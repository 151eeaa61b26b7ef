// Command analystbot publishes a daily market briefing to a Hugo site.
package main

import (
	"fmt"
	"os"

	"github.com/deusflow/analystbot/internal/app"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(app.ExitCode(err))
	}
}
