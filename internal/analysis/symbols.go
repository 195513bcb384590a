package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/workspace"
)

// CollectDocumentSymbols builds the outline of a file. Classes list their
// members and functions their parameters and locals as children.
func CollectDocumentSymbols(decls []ast.Declaration, lines []string) []protocol.DocumentSymbol {
	symbols := make([]protocol.DocumentSymbol, 0, len(decls))

	for _, d := range ast.Flatten(decls) {
		sym := documentSymbol(d, lines)

		switch d := d.(type) {
		case *ast.ClassDecl:
			for _, m := range d.Members {
				child := documentSymbol(m, lines)
				child.Kind = protocol.SymbolKindField
				sym.Children = append(sym.Children, child)
			}
		case *ast.FunctionDecl:
			for _, p := range d.Params {
				sym.Children = append(sym.Children, documentSymbol(p, lines))
			}
			for _, local := range ast.Locals(d.Body) {
				sym.Children = append(sym.Children, documentSymbol(local, lines))
			}
		}

		symbols = append(symbols, sym)
	}

	return symbols
}

// CollectSymbolInformation is the flat form of CollectDocumentSymbols for
// clients without hierarchical symbol support.
func CollectSymbolInformation(uri string, decls []ast.Declaration, lines []string) []protocol.SymbolInformation {
	var out []protocol.SymbolInformation

	var walk func(syms []protocol.DocumentSymbol, container string)
	walk = func(syms []protocol.DocumentSymbol, container string) {
		for _, s := range syms {
			info := protocol.SymbolInformation{
				Name:     s.Name,
				Kind:     s.Kind,
				Location: protocol.Location{URI: uri, Range: s.SelectionRange},
			}
			if container != "" {
				c := container
				info.ContainerName = &c
			}
			out = append(out, info)
			walk(s.Children, s.Name)
		}
	}
	walk(CollectDocumentSymbols(decls, lines), "")

	return out
}

func documentSymbol(d ast.Declaration, lines []string) protocol.DocumentSymbol {
	detail := workspace.Detail(d)
	nameRange := workspace.NameRange(d, lines)

	// The full range spans the declaration's line so the outline can
	// reveal the whole head.
	full := nameRange
	full.Start.Character = 0
	if line := int(nameRange.Start.Line); line < len(lines) {
		full.End.Character = max(full.End.Character, uint32(document.UTF16Len(lines[line])))
	}

	return protocol.DocumentSymbol{
		Name:           d.DeclName(),
		Detail:         &detail,
		Kind:           workspace.SymbolKind(d),
		Range:          full,
		SelectionRange: nameRange,
	}
}
