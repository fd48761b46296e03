// relaychat relays chat exchanges to OpenRouter and offers a terminal client for them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matiasleandrokruk/relaychat/cmd/relaychat/cmds"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	root := cmds.NewRootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(errOut, "error:", err) //nolint:errcheck
		if cmds.IsUsageError(err) {
			return 2
		}
		return 1
	}
	return 0
}
