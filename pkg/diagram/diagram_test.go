package diagram

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/css"
	"csscontexts/pkg/html"
)

const page = `<html><head><style>
  #b { position: relative; }
  #d { position: absolute; }
  .fade { opacity: 0.5; }
</style></head><body>
  <div id="b"><div id="c" class="fade"><div id="d">t</div></div></div>
</body></html>`

func setup(t *testing.T) (*classify.Classifier, *html.Node) {
	t.Helper()
	doc, err := html.Parse(page)
	require.NoError(t, err)
	resolver, err := css.NewDocumentResolver(doc, css.DefaultViewport)
	require.NoError(t, err)
	d, err := css.QuerySelector(doc.Root, "#d")
	require.NoError(t, err)
	require.NotNil(t, d)
	return classify.New(resolver.ComputedStyle, classify.Options{}), d
}

func TestRows(t *testing.T) {
	c, d := setup(t)
	rows := Rows(c, d)
	require.Len(t, rows, 5)

	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
	}
	assert.Equal(t, []string{"html", "body", "div#b", "div#c.fade", "div#d"}, labels)

	assert.True(t, rows[0].Creates)
	assert.False(t, rows[0].StackingContext)
	assert.True(t, rows[2].ContainingBlock)
	assert.True(t, rows[3].Creates)
	assert.True(t, rows[3].StackingContext)
	assert.True(t, rows[4].Target)
	assert.False(t, rows[4].Creates)
}

func TestRowsNil(t *testing.T) {
	c, _ := setup(t)
	assert.Nil(t, Rows(c, nil))
}

func TestRenderSize(t *testing.T) {
	c, d := setup(t)
	img := Draw(c, d, Options{})
	b := img.Bounds()
	assert.Equal(t, Width, b.Dx())
	assert.Equal(t, 2*margin+RowHeight*6, b.Dy())

	// Corner pixel is background.
	r, g, bl, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, bl})
}

func TestSavePNG(t *testing.T) {
	c, d := setup(t)
	path := filepath.Join(t.TempDir(), "chain.png")
	require.NoError(t, SavePNG(path, c, d, Options{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())

	assert.Error(t, SavePNG(path, c, nil, Options{}))
}

func TestMissingFontFallsBack(t *testing.T) {
	c, d := setup(t)
	img := Draw(c, d, Options{Font: filepath.Join(t.TempDir(), "absent.ttf")})
	assert.Equal(t, Width, img.Bounds().Dx())
}

func TestFitLabel(t *testing.T) {
	dc := gg.NewContext(100, 100)
	assert.Equal(t, "div#a", fitLabel(dc, "div#a", 1000))

	long := strings.Repeat("x", 200)
	got := fitLabel(dc, long, 100)
	assert.True(t, strings.HasSuffix(got, "..."))
	w, _ := dc.MeasureString(got)
	assert.LessOrEqual(t, w, 100.0)

	assert.Equal(t, "", fitLabel(dc, long, 0))
}

func TestFindFont(t *testing.T) {
	path := FindFont()
	if path == "" {
		t.Skip("no candidate font installed")
	}
	assert.Contains(t, FontCandidates(), path)
}
