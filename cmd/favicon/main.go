// favicon generates favicon.ico and favicon.png from logo/logo.png in the
// current directory.
package main

import (
	"io"
	"os"

	"git.sr.ht/~jackmordaunt/favicon"
)

func main() {
	run(os.Stdout, favicon.NewCodec())
}

// run reports failures rather than exiting with them; the outcome is only
// ever communicated through the console.
func run(out io.Writer, codec favicon.Codec) {
	if _, err := (favicon.Converter{
		Config: favicon.DefaultConfig(),
		Codec:  codec,
		Out:    out,
	}).Run(); err != nil {
		favicon.Report(out, err)
	}
}
