package live

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csscontexts/pkg/css"
	"csscontexts/pkg/panel"
)

const chromeUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) HeadlessChrome/120.0.0.0 Safari/537.36"

func styleWith(overrides map[string]string) map[string]string {
	style := make(map[string]string, len(css.InitialValues))
	for k, v := range css.InitialValues {
		style[k] = v
	}
	style["display"] = "block"
	for k, v := range overrides {
		style[k] = v
	}
	return style
}

func payload(t *testing.T, ua string, chain ...*Element) []byte {
	t.Helper()
	b, err := json.Marshal(&Snapshot{UserAgent: ua, Chain: chain})
	require.NoError(t, err)
	return b
}

func TestDecodeSnapshotLinksParents(t *testing.T) {
	snap, err := DecodeSnapshot(payload(t, chromeUA,
		&Element{Name: "HTML", Computed: styleWith(nil)},
		&Element{Name: "BODY", Computed: styleWith(nil)},
		&Element{Name: "DIV", IDAttr: "menu", ClassList: []string{"a", "b"}, Computed: styleWith(nil)},
	))
	require.NoError(t, err)
	require.Len(t, snap.Chain, 3)

	target := snap.Target()
	assert.Equal(t, "DIV", target.NodeName())
	assert.Same(t, snap.Chain[1], target.ParentElement())
	assert.Same(t, snap.Chain[0], snap.Chain[1].ParentElement())
	assert.Nil(t, snap.Chain[0].ParentElement())
	assert.Equal(t, "div#menu.a.b", panel.Describe(target))
	assert.False(t, snap.Options().FilterContainingBlock)
}

func TestDecodeSnapshotNotFound(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"userAgent":"x","chain":null}`))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = DecodeSnapshot([]byte(`{"chain":`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = DecodeSnapshot([]byte(`{"chain":[null]}`))
	assert.Error(t, err)
}

func TestSnapshotClassification(t *testing.T) {
	snap, err := DecodeSnapshot(payload(t, chromeUA,
		&Element{Name: "HTML", Computed: styleWith(nil)},
		&Element{Name: "BODY", Computed: styleWith(map[string]string{"position": "relative"})},
		&Element{Name: "DIV", Computed: styleWith(map[string]string{"transform": "matrix(1, 0, 0, 1, 10, 0)"})},
		&Element{Name: "SPAN", Computed: styleWith(map[string]string{"position": "fixed", "z-index": "10"})},
	))
	require.NoError(t, err)

	res := snap.Classifier().Classify(snap.Target())
	require.NotNil(t, res)
	assert.Same(t, snap.Chain[2], res.ContainingBlock)
	assert.True(t, res.CreatesStackingContext)
	assert.Same(t, snap.Chain[2], res.StackingContext)
	assert.Equal(t, 10, res.ZIndex.Value)
}

func TestSnapshotFirefoxFilter(t *testing.T) {
	snap, err := DecodeSnapshot(payload(t, "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
		&Element{Name: "HTML", Computed: styleWith(nil)},
		&Element{Name: "DIV", Computed: styleWith(map[string]string{"filter": "blur(2px)"})},
		&Element{Name: "SPAN", Computed: styleWith(map[string]string{"position": "fixed"})},
	))
	require.NoError(t, err)
	require.True(t, snap.Options().FilterContainingBlock)
	assert.Same(t, snap.Chain[1], snap.Classifier().ContainingBlock(snap.Target()))
}

func TestSnapshotStyleForeignElement(t *testing.T) {
	snap := &Snapshot{}
	assert.Empty(t, snap.Style(nil).Properties)
	assert.Nil(t, snap.Target())
}
