package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csscontexts/pkg/html"
)

const testPage = `<html><head>
<link rel="stylesheet" href="site.css">
</head><body>
  <div id="b"><div id="c"><div id="d">t</div></div></div>
  <script>document.getElementById("c").style.opacity = "0.5";</script>
</body></html>`

const testCSS = `#b { position: relative; } #d { position: absolute; }`

func fixture(t *testing.T) (page, conf string) {
	t.Helper()
	dir := t.TempDir()
	page = filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(page, []byte(testPage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.css"), []byte(testCSS), 0o644))
	conf = filepath.Join(dir, "csscontexts.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("log:\n  level: error\n"), 0o644))
	return page, conf
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassifyText(t *testing.T) {
	page, conf := fixture(t)
	out, err := execute(t, "classify", "--config", conf, "--format", "text", "--scripts=false", page, "#d")
	require.NoError(t, err)
	assert.Contains(t, out, "current")
	assert.Regexp(t, `containingBlock\s+div#b`, out)
	assert.Regexp(t, `stackContext\s+html`, out)
	assert.Regexp(t, `create stack context\?\s+false`, out)
}

func TestClassifyJSONWithScripts(t *testing.T) {
	page, conf := fixture(t)
	out, err := execute(t, "classify", "--config", conf, "--format", "json", "--scripts", page, "#d")
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "div#d", rec["current"])
	assert.Equal(t, "div#b", rec["containingBlock"])
	assert.Equal(t, "div#c", rec["stackContext"])
	assert.Equal(t, "auto", rec["z-index"])
}

func TestClassifyNoMatch(t *testing.T) {
	page, conf := fixture(t)
	_, err := execute(t, "classify", "--config", conf, "--format", "text", "--scripts=false", page, "#missing")
	assert.Error(t, err)
}

func TestClassifyBadFormat(t *testing.T) {
	page, conf := fixture(t)
	_, err := execute(t, "classify", "--config", conf, "--format", "xml", "--scripts=false", page, "#d")
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	page, conf := fixture(t)
	out, err := execute(t, "chain", "--config", conf, "--format", "text", page, "#d")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "ELEMENT")
	assert.Contains(t, lines[1], "html")
	assert.Contains(t, lines[1], "SC")
	assert.Contains(t, lines[1], "root element")
	assert.Contains(t, lines[3], "div#b")
	assert.Contains(t, lines[3], "CB")
	assert.Contains(t, lines[5], "div#d")
	assert.Contains(t, lines[5], "target")
	assert.Contains(t, lines[5], "absolute")
}

func TestEval(t *testing.T) {
	page, conf := fixture(t)
	out, err := execute(t, "eval", "--config", conf, "--format", "text", "--select", "#d", page, "cssContext().stackContext.id")
	require.NoError(t, err)
	assert.Equal(t, "\"c\"\n", out)

	out, err = execute(t, "eval", "--config", conf, "--format", "text", "--select", "#d", page)
	require.NoError(t, err)
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "div#b", rec["containingBlock"])
	assert.Equal(t, "absolute", rec["position"])
}

func TestDiagram(t *testing.T) {
	page, conf := fixture(t)
	png := filepath.Join(t.TempDir(), "out.png")
	out, err := execute(t, "diagram", "--config", conf, "--format", "text", "-o", png, page, "#d")
	require.NoError(t, err)
	assert.Equal(t, png+"\n", out)
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportable(t *testing.T) {
	doc, err := html.Parse(`<html><body><p id="x" class="a">t</p></body></html>`)
	require.NoError(t, err)
	p := doc.Body().ElementChildren()[0]

	got := exportable(map[string]interface{}{
		"el":   p,
		"list": []interface{}{p, int64(2)},
		"s":    "x",
	})
	assert.Equal(t, map[string]interface{}{
		"el":   "p#x.a",
		"list": []interface{}{"p#x.a", int64(2)},
		"s":    "x",
	}, got)
}
