package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/graph"
)

const sampleCorpus = `{
  "comments": [
    {"id": "c1", "author": "ada", "timestamp": "2024-01-02T10:00:00Z",
     "splits": [{"text": "first point"}, {"text": "second point"}]},
    {"id": "c2", "author": "bob", "timestamp": "2024-03-01T10:00:00Z",
     "splits": [{"text": "a reply"}]}
  ],
  "edges": [
    {"src": [0, 0], "tgt": [1, 0], "wgts": [0.8, 1]},
    {"src": [0, 1], "tgt": [1, 0], "wgts": [0.3, 0]}
  ]
}`

// setup moves into a scratch project with a corpus file and returns its path.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	config.Reset()
	t.Cleanup(config.Reset)
	ConfigPath = ""

	path := filepath.Join(dir, "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCorpus), 0o644))
	return path
}

// resetRenderFlags restores flag values and clears Changed, which persists
// across executions of the same command.
func resetRenderFlags() {
	RenderCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	renderOut, renderJSON, renderHighlight, renderFrom, renderTo = "", "", "", "", ""
	renderHideEdges, renderCompact = false, false
	renderTicks = 20
	renderWidth, renderHeight = 0, 0
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readGraph(t *testing.T, path string) graph.Graph {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var g graph.Graph
	require.NoError(t, json.Unmarshal(data, &g))
	return g
}

func TestRender_Stdout(t *testing.T) {
	path := setup(t)
	resetRenderFlags()

	out, err := execute(t, RenderCmd, path, "--ticks", "5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Equal(t, 3, strings.Count(out, "<circle"))
	assert.Equal(t, 2, strings.Count(out, "<line"))
}

func TestRender_Files(t *testing.T) {
	path := setup(t)
	resetRenderFlags()
	svgPath := filepath.Join(filepath.Dir(path), "graph.svg")
	jsonPath := filepath.Join(filepath.Dir(path), "graph.json")

	_, err := execute(t, RenderCmd, path,
		"--out", svgPath, "--json", jsonPath,
		"--highlight", "c2", "--hide-edges", "--width", "400", "--height", "300")
	require.NoError(t, err)

	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `width="400.00"`)
	assert.NotContains(t, string(svg), "<line")

	g := readGraph(t, jsonPath)
	assert.Len(t, g.Nodes, 3)
	require.Len(t, g.Links, 2)
	for _, l := range g.Links {
		assert.True(t, l.Hidden)
	}
	assert.Equal(t, "c2", g.Meta.Config["highlight"])
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown highlight", []string{"--highlight", "nope"}},
		{"half time range", []string{"--from", "2024-01-01T00:00:00Z"}},
		{"negative width", []string{"--width", "-1"}},
		{"zero height", []string{"--height", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := setup(t)
			resetRenderFlags()
			_, err := execute(t, RenderCmd, append([]string{path}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestRender_NoCorpus(t *testing.T) {
	setup(t)
	resetRenderFlags()
	_, err := execute(t, RenderCmd)
	assert.ErrorContains(t, err, "no corpus")
}

func TestRender_DanglingReference(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	config.Reset()
	t.Cleanup(config.Reset)
	resetRenderFlags()

	path := filepath.Join(dir, "bad.json")
	bad := `{"comments":[{"id":"c1","splits":[{"text":"x"}]}],"edges":[{"src":[0,0],"tgt":[5,0],"wgts":[1]}]}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
	jsonPath := filepath.Join(dir, "graph.json")

	_, err := execute(t, RenderCmd, path, "--json", jsonPath)
	require.Error(t, err)

	g := readGraph(t, jsonPath)
	assert.Empty(t, g.Nodes)
	assert.Equal(t, "reference", g.Meta.Config["category"])
}

func TestImport_ThenRenderFromDatabase(t *testing.T) {
	path := setup(t)
	dbPath := filepath.Join(filepath.Dir(path), "corpus.db")
	importDBPath = ""

	out, err := execute(t, ImportCmd, path, "--db", dbPath)
	require.NoError(t, err, out)

	resetRenderFlags()
	jsonPath := filepath.Join(filepath.Dir(path), "graph.json")
	_, err = execute(t, RenderCmd, dbPath, "--json", jsonPath)
	require.NoError(t, err)

	g := readGraph(t, jsonPath)
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Links, 2)
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantNil bool
		wantErr bool
	}{
		{"none", "", "", true, false},
		{"both", "2024-01-01T00:00:00Z", "2024-02-01T00:00:00Z", false, false},
		{"only from", "2024-01-01T00:00:00Z", "", false, true},
		{"only to", "", "2024-01-01T00:00:00Z", false, true},
		{"reversed", "2024-02-01T00:00:00Z", "2024-01-01T00:00:00Z", false, true},
		{"malformed", "yesterday", "2024-01-01T00:00:00Z", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parseTimeRange(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, r)
				return
			}
			require.NotNil(t, r)
			assert.Equal(t, 31*24*time.Hour, r.End.Sub(r.Start))
		})
	}
}

func TestIsDatabase(t *testing.T) {
	assert.True(t, isDatabase("comex.db"))
	assert.True(t, isDatabase("/tmp/x.SQLite"))
	assert.True(t, isDatabase("x.sqlite3"))
	assert.False(t, isDatabase("corpus.json"))
	assert.False(t, isDatabase("corpus"))
}

func TestVersionCmd_JSON(t *testing.T) {
	out, err := execute(t, VersionCmd, "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "commit_hash")
	assert.Contains(t, info, "platform")
}

func TestConfigCmd(t *testing.T) {
	setup(t)
	require.NoError(t, os.WriteFile(config.ProjectFile, []byte("[layout]\nticks = 42\n"), 0o644))
	config.Reset()

	t.Run("get", func(t *testing.T) {
		out, err := execute(t, ConfigCmd, "get", "layout.ticks")
		require.NoError(t, err)
		assert.Equal(t, "42\n", out)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := execute(t, ConfigCmd, "get", "layout.nope")
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("show json", func(t *testing.T) {
		out, err := execute(t, ConfigCmd, "show", "--format", "json")
		require.NoError(t, err)
		var tree map[string]map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &tree))
		assert.EqualValues(t, 42, tree["layout"]["ticks"])
		assert.EqualValues(t, 960, tree["canvas"]["width"])
	})

	t.Run("show toml", func(t *testing.T) {
		out, err := execute(t, ConfigCmd, "show", "--format", "toml")
		require.NoError(t, err)
		assert.Contains(t, out, "[layout]")
		assert.Contains(t, out, "ticks = 42")
	})

	t.Run("show yaml", func(t *testing.T) {
		out, err := execute(t, ConfigCmd, "show", "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "ticks: 42")
	})

	t.Run("show unknown format", func(t *testing.T) {
		_, err := execute(t, ConfigCmd, "show", "--format", "ini")
		assert.Error(t, err)
		configFormat = "toml"
	})

	t.Run("where", func(t *testing.T) {
		out, err := execute(t, ConfigCmd, "where")
		require.NoError(t, err)
		assert.Contains(t, out, "layout.ticks")
		assert.Contains(t, out, "project")
	})

	t.Run("validate", func(t *testing.T) {
		out, err := execute(t, ConfigCmd, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "valid")
	})
}
