package document

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func rng(sl, sc, el, ec uint32) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestApplyChange(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		change protocol.TextDocumentContentChangeEvent
		want   string
	}{
		{
			name:   "full replace",
			text:   "var int a;",
			change: protocol.TextDocumentContentChangeEvent{Text: "var int b;"},
			want:   "var int b;",
		},
		{
			name:   "single line",
			text:   "var int a;",
			change: protocol.TextDocumentContentChangeEvent{Range: rng(0, 4, 0, 7), Text: "string"},
			want:   "var string a;",
		},
		{
			name:   "insert at end of line",
			text:   "var int a\nvar int b;",
			change: protocol.TextDocumentContentChangeEvent{Range: rng(0, 9, 0, 9), Text: ";"},
			want:   "var int a;\nvar int b;",
		},
		{
			name:   "multi line delete",
			text:   "func void F() {\n\tx = 1;\n};",
			change: protocol.TextDocumentContentChangeEvent{Range: rng(0, 15, 2, 0), Text: ""},
			want:   "func void F() {};",
		},
		{
			name:   "surrogate pair",
			text:   `const string S = "😀x";`,
			change: protocol.TextDocumentContentChangeEvent{Range: rng(0, 20, 0, 21), Text: "y"},
			want:   `const string S = "😀y";`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyChange(tt.text, tt.change)
			if err != nil {
				t.Fatalf("ApplyChange returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ApplyChange = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyChange_OutOfRange(t *testing.T) {
	_, err := ApplyChange("var int a;", protocol.TextDocumentContentChangeEvent{Range: rng(3, 0, 3, 1), Text: "x"})
	if err == nil {
		t.Fatal("expected error for line out of range")
	}

	_, err = ApplyChange("var int a;", protocol.TextDocumentContentChangeEvent{Range: rng(0, 40, 0, 41), Text: "x"})
	if err == nil {
		t.Fatal("expected error for character out of range")
	}
}

func TestApplyChanges_Mixed(t *testing.T) {
	changes := []any{
		protocol.TextDocumentContentChangeEventWhole{Text: "var int a;"},
		protocol.TextDocumentContentChangeEvent{Range: rng(0, 8, 0, 9), Text: "hp"},
	}

	got, err := ApplyChanges("", changes)
	if err != nil {
		t.Fatalf("ApplyChanges returned error: %v", err)
	}
	if want := "var int hp;"; got != want {
		t.Errorf("ApplyChanges = %q, want %q", got, want)
	}
}

func TestColumnConversions(t *testing.T) {
	line := `Print("😀"); x`

	if got := RuneToUTF16(line, 1); got != 0 {
		t.Errorf("RuneToUTF16(1) = %d, want 0", got)
	}
	// x is rune 13 (1-based) and UTF-16 offset 13 because of the surrogate pair.
	if got := RuneToUTF16(line, 13); got != 13 {
		t.Errorf("RuneToUTF16(13) = %d, want 13", got)
	}
	if got := UTF16ToRune(line, 13); got != 13 {
		t.Errorf("UTF16ToRune(13) = %d, want 13", got)
	}
	if got := UTF16Len("😀a"); got != 3 {
		t.Errorf("UTF16Len = %d, want 3", got)
	}
}

func TestWordAt(t *testing.T) {
	line := "\tB_GiveInvItems(self, other, ItMi_Gold, 1);"

	tests := []struct {
		char    uint32
		want    string
		wantCol int
	}{
		{1, "B_GiveInvItems", 2},
		{8, "B_GiveInvItems", 2},
		{15, "B_GiveInvItems", 2},
		{17, "self", 17},
		{30, "ItMi_Gold", 30},
		{20, "self", 17},
		{21, "", 0},
		{22, "other", 23},
	}

	for _, tt := range tests {
		word, col := WordAt(line, tt.char)
		if word != tt.want || col != tt.wantCol {
			t.Errorf("WordAt(%d) = %q@%d, want %q@%d", tt.char, word, col, tt.want, tt.wantCol)
		}
	}
}
