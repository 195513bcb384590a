package analysis

import (
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/builtins"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
	"github.com/CWBudde/go-daedalus-lsp/internal/workspace"
)

// CollectCompletions returns the suggestion set for doc: declarations of the
// file and the project, identifiers seen in the token stream, engine API
// names and keywords. Names are deduplicated case-insensitively, the first
// source in that order wins. Items are sorted by label.
func CollectCompletions(doc *server.Document, project []ast.Declaration) []protocol.CompletionItem {
	seen := make(map[string]bool)
	var items []protocol.CompletionItem

	add := func(item protocol.CompletionItem) {
		key := strings.ToLower(item.Label)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		items = append(items, item)
	}

	if doc != nil {
		for _, d := range ast.Flatten(doc.Declarations) {
			add(declarationItem(d))
			if fn, ok := d.(*ast.FunctionDecl); ok {
				for _, p := range fn.Params {
					add(declarationItem(p))
				}
				for _, local := range ast.Locals(fn.Body) {
					add(declarationItem(local))
				}
			}
		}
	}
	for _, d := range project {
		add(declarationItem(d))
	}
	if doc != nil {
		for _, tok := range doc.Tokens {
			if tok.Kind.IsNameLike() && !tok.Kind.IsEngineAPI() {
				add(simpleItem(tok.Text, protocol.CompletionItemKindVariable))
			}
		}
	}
	for _, name := range builtins.EngineNames() {
		add(engineItem(name))
	}
	for _, kw := range token.Keywords() {
		add(simpleItem(kw, protocol.CompletionItemKindKeyword))
	}

	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Label) < strings.ToLower(items[j].Label)
	})

	return items
}

// FilterCompletionsByPrefix keeps the items whose label starts with prefix,
// ignoring case. An empty prefix keeps everything.
func FilterCompletionsByPrefix(items []protocol.CompletionItem, prefix string) []protocol.CompletionItem {
	if prefix == "" {
		return items
	}

	prefix = strings.ToLower(prefix)
	filtered := make([]protocol.CompletionItem, 0, len(items))
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Label), prefix) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func declarationItem(d ast.Declaration) protocol.CompletionItem {
	kind := completionKind(d)
	detail := workspace.Detail(d)
	return protocol.CompletionItem{
		Label:  d.DeclName(),
		Kind:   &kind,
		Detail: &detail,
	}
}

func completionKind(d ast.Declaration) protocol.CompletionItemKind {
	switch d.(type) {
	case *ast.FunctionDecl:
		return protocol.CompletionItemKindFunction
	case *ast.ConstDecl:
		return protocol.CompletionItemKindConstant
	case *ast.ClassDecl, *ast.PrototypeDecl:
		return protocol.CompletionItemKindClass
	}
	return protocol.CompletionItemKindVariable
}

func engineItem(name string) protocol.CompletionItem {
	sig := builtins.GetBuiltinSignature(name)
	if sig == nil {
		item := simpleItem(name, protocol.CompletionItemKindConstant)
		detail := "engine constant"
		item.Detail = &detail
		return item
	}

	kind := protocol.CompletionItemKindFunction
	detail := sig.Label()
	item := protocol.CompletionItem{
		Label:  sig.Name,
		Kind:   &kind,
		Detail: &detail,
	}
	if sig.Documentation != "" {
		item.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: sig.Documentation,
		}
	}
	return item
}

func simpleItem(label string, kind protocol.CompletionItemKind) protocol.CompletionItem {
	return protocol.CompletionItem{Label: label, Kind: &kind}
}
