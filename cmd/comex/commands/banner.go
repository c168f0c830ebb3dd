package commands

import (
	"fmt"
	"io"

	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/sym"
	"github.com/teranos/comex/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(w io.Writer, verbosity int, corpusPath string, comments, splits int) {
	cyan := "\033[36m"
	green := "\033[32m"
	yellow := "\033[33m"
	blue := "\033[34m"
	bold := "\033[1m"
	reset := "\033[0m"

	versionInfo := version.Get()

	fmt.Fprintf(w, "\n%s%s", cyan, bold)
	fmt.Fprintf(w, "   ╔═══════════════════════════════════════╗\n")
	fmt.Fprintf(w, "   ║                                       ║\n")
	fmt.Fprintf(w, "   ║     %s───%s       c o m e x             ║\n", sym.Node, sym.Node)
	fmt.Fprintf(w, "   ║      ╲ ╱ ╲                            ║\n")
	fmt.Fprintf(w, "   ║       %s───%s     comment graphs        ║\n", sym.Node, sym.Node)
	fmt.Fprintf(w, "   ║                                       ║\n")
	fmt.Fprintf(w, "   ╚═══════════════════════════════════════╝%s\n\n", reset)

	fmt.Fprintf(w, "%s%s┌─ comex Info ─────────────────────────────┐%s\n", green, bold, reset)
	fmt.Fprintf(w, "%s│%s Version:   %s (commit %s)\n", green, reset, versionInfo.Version, versionInfo.Short())
	fmt.Fprintf(w, "%s│%s Built:     %s\n", green, reset, versionInfo.BuildTime)
	fmt.Fprintf(w, "%s│%s Verbosity: %s\n", green, reset, logger.LevelName(verbosity))
	fmt.Fprintf(w, "%s│%s Corpus:    %s\n", green, reset, corpusPath)
	fmt.Fprintf(w, "%s│%s Comments:  %d (%d %s splits)\n", green, reset, comments, splits, sym.Node)
	fmt.Fprintf(w, "%s└──────────────────────────────────────────┘%s\n", green, reset)

	fmt.Fprintf(w, "\n%s%sClick a node to highlight its comment%s\n", yellow, bold, reset)
	fmt.Fprintf(w, "%sPress Ctrl+C to stop%s\n\n", blue, reset)
}
