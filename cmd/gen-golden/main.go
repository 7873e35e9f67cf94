// Command gen-golden regenerates the expected HTML next to each Markdown
// fixture. With --check it only reports fixtures whose output changed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"pkt.systems/mdhtml/internal/golden"
)

func main() {
	dir := pflag.StringP("dir", "d", "testdata", "Fixture directory")
	check := pflag.Bool("check", false, "Report stale fixtures instead of rewriting them")
	pflag.Parse()

	paths, err := golden.Fixtures(*dir)
	if err != nil {
		fail(err)
	}
	stale := 0
	for _, path := range paths {
		out, err := golden.Render(path)
		if err != nil {
			fail(fmt.Errorf("%s: %w", path, err))
		}
		if *check {
			if want, err := golden.Want(path); err != nil || want != out {
				fmt.Fprintf(os.Stdout, "stale %s\n", golden.Path(path))
				stale++
			}
			continue
		}
		if err := os.WriteFile(golden.Path(path), []byte(out+"\n"), 0o644); err != nil {
			fail(err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", golden.Path(path))
	}
	if stale > 0 {
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "gen-golden: %v\n", err)
	os.Exit(1)
}
