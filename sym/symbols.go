// Package sym defines the glyphs comex prints for its commands and graph
// elements. These symbols are stable across the CLI and the served UI.
package sym

// Command glyphs.
const (
	Render  = "▣" // render - lay out and write a frame
	Serve   = "⟐" // serve - live session over WebSocket
	Import  = "⨳" // import - copy a corpus into storage
	Version = "≡" // version - build information
	Config  = "⚙" // config - layered configuration
)

// Graph and system glyphs.
const (
	Node  = "●" // a comment split
	Link  = "─" // a scored relation between splits
	Lasso = "⬚" // rectangle selection mode
	Zoom  = "⌕" // zoom mode
	DB    = "⊔" // database/storage layer
)

// SymbolToCommand maps glyph strings to their command names.
var SymbolToCommand = map[string]string{
	Render:  "render",
	Serve:   "serve",
	Import:  "import",
	Version: "version",
	Config:  "config",
}

// CommandToSymbol maps command names to their glyph strings.
var CommandToSymbol = map[string]string{
	"render":  Render,
	"serve":   Serve,
	"import":  Import,
	"version": Version,
	"config":  Config,
}

// CommandDescriptions provides the one-line help for each command.
var CommandDescriptions = map[string]string{
	"render":  "Lay out a corpus and write SVG or D3 JSON",
	"serve":   "Start the live WebSocket session for a corpus",
	"import":  "Copy a JSON corpus into SQLite",
	"version": "Show comex version information",
	"config":  "Inspect comex configuration",
}

// Short returns the glyph-prefixed help line for a command, or the bare
// description when the command has no glyph.
func Short(command string) string {
	desc := CommandDescriptions[command]
	if g, ok := CommandToSymbol[command]; ok {
		return g + " " + desc
	}
	return desc
}
