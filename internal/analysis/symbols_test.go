package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const outlineSource = `class C_Item { var int value; var string name; };
func int Add(var int a, var int b) { var int sum; sum = a + b; return sum; };
instance ItA, ItB (C_Item);`

func TestCollectDocumentSymbols(t *testing.T) {
	doc := newDocument(t, outlineSource)

	symbols := CollectDocumentSymbols(doc.Declarations, doc.Lines)
	require.Len(t, symbols, 4)

	class := symbols[0]
	assert.Equal(t, "C_Item", class.Name)
	assert.Equal(t, protocol.SymbolKindClass, class.Kind)
	require.Len(t, class.Children, 2)
	assert.Equal(t, "value", class.Children[0].Name)
	assert.Equal(t, protocol.SymbolKindField, class.Children[0].Kind)

	add := symbols[1]
	assert.Equal(t, protocol.SymbolKindFunction, add.Kind)
	assert.Equal(t, "func int Add(var int a, var int b)", *add.Detail)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 9},
		End:   protocol.Position{Line: 1, Character: 12},
	}, add.SelectionRange)
	assert.Equal(t, uint32(0), add.Range.Start.Character)
	var children []string
	for _, c := range add.Children {
		children = append(children, c.Name)
	}
	assert.Equal(t, []string{"a", "b", "sum"}, children)

	assert.Equal(t, "ItA", symbols[2].Name)
	assert.Equal(t, "ItB", symbols[3].Name)
	assert.Equal(t, protocol.SymbolKindObject, symbols[3].Kind)
}

func TestCollectSymbolInformation(t *testing.T) {
	doc := newDocument(t, outlineSource)

	infos := CollectSymbolInformation(doc.URI, doc.Declarations, doc.Lines)
	require.Len(t, infos, 9)

	assert.Equal(t, "C_Item", infos[0].Name)
	assert.Nil(t, infos[0].ContainerName)
	assert.Equal(t, "value", infos[1].Name)
	require.NotNil(t, infos[1].ContainerName)
	assert.Equal(t, "C_Item", *infos[1].ContainerName)
	assert.Equal(t, doc.URI, infos[1].Location.URI)
}
