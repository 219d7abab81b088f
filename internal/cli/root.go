package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	u := a.manager.CurrentUser()
	if u == nil {
		return "(anonymous)"
	}
	return fmt.Sprintf("(%s %s)", u.Username, u.Role)
}

// Root prints the banner and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to AtlasInfo CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
