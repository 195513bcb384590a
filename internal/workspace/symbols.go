package workspace

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
)

// SymbolKind maps a declaration to its LSP symbol kind.
func SymbolKind(d ast.Declaration) protocol.SymbolKind {
	switch d.(type) {
	case *ast.FunctionDecl:
		return protocol.SymbolKindFunction
	case *ast.ConstDecl:
		return protocol.SymbolKindConstant
	case *ast.InstanceDecl:
		return protocol.SymbolKindObject
	case *ast.PrototypeDecl:
		return protocol.SymbolKindConstructor
	case *ast.ClassDecl:
		return protocol.SymbolKindClass
	}
	return protocol.SymbolKindVariable
}

// Detail renders the one-line declaration head shown next to a symbol.
func Detail(d ast.Declaration) string {
	switch d := d.(type) {
	case *ast.FunctionDecl:
		return d.Signature()
	case *ast.VarDecl:
		return "var " + d.TypeName + " " + d.Name + arraySuffix(d.ArraySize)
	case *ast.ConstDecl:
		return "const " + d.TypeName + " " + d.Name + arraySuffix(d.ArraySize)
	case *ast.InstanceDecl:
		return fmt.Sprintf("instance %s(%s)", d.Name, d.BaseClass)
	case *ast.PrototypeDecl:
		return d.Signature()
	case *ast.ClassDecl:
		return "class " + d.Name
	}
	return d.DeclName()
}

func arraySuffix(size ast.Expression) string {
	if size == nil {
		return ""
	}
	return "[" + ast.Dump(size) + "]"
}

// NameRange is the 0-based range of a declaration's name.
func NameRange(d ast.Declaration, lines []string) protocol.Range {
	return IdentRange(d.Pos(), d.DeclName(), lines)
}

// IdentRange is the 0-based range of name starting at the 1-based pos.
func IdentRange(pos ast.Position, name string, lines []string) protocol.Range {
	line := ""
	if pos.Line >= 1 && pos.Line <= len(lines) {
		line = lines[pos.Line-1]
	}

	lspLine := uint32(0)
	if pos.Line > 0 {
		lspLine = uint32(pos.Line - 1)
	}
	start := document.RuneToUTF16(line, pos.Column)
	return protocol.Range{
		Start: protocol.Position{Line: lspLine, Character: start},
		End:   protocol.Position{Line: lspLine, Character: start + uint32(document.UTF16Len(name))},
	}
}
