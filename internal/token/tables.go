package token

import "strings"

// PrefixRule maps an identifier prefix to an engine-API kind.
type PrefixRule struct {
	Prefix string
	Kind   Kind
}

// prefixRules is evaluated in order and the first matching prefix wins. The
// order is load-bearing: NPC_TALENT_ must be tested before the generic NPC
// prefix. Matching is case-sensitive so that NPC (constants) and Npc_
// (functions) stay apart.
var prefixRules = []PrefixRule{
	{"NPC_TALENT_", TalentConstant},
	{"ATR_", AttributeConstant},
	{"GIL_", GuildConstant},
	{"AIV_", AIVariable},
	{"FAI_", FightAIConstant},
	{"PERC_", PerceptionConstant},
	{"ITEM_", ItemConstant},
	{"LOG_", LogConstant},
	{"NPC", NpcConstant},
	{"Npc_", NpcFunction},
	{"AI_", AIFunction},
	{"Wld_", WorldFunction},
	{"B_", BehaviorFunction},
	{"Mdl_", ModelFunction},
	{"Hlp_", HelperFunction},
	{"Info_", InfoFunction},
	{"Log_", LogFunction},
	{"Doc_", DocFunction},
	{"Snd_", SoundFunction},
	{"Mob_", MobFunction},
	{"ZS_", StateFunction},
	{"TA_", RoutineFunction},
	{"Print", PrintFunction},
}

// Script-defined sizing constants that share an engine prefix but are
// declared in user code.
var identifierExceptions = map[string]struct{}{
	"ATR_INDEX_MAX":     {},
	"GIL_MAX":           {},
	"GIL_SEPERATOR_HUM": {},
	"GIL_SEPERATOR_ORC": {},
	"NPC_TALENT_MAX":    {},
}

var specialKeywords = map[string]struct{}{
	"self":  {},
	"other": {},
	"hero":  {},
	"slf":   {},
}

var keywords = map[string]Kind{
	"func":      Func,
	"var":       Var,
	"const":     Const,
	"if":        If,
	"else":      Else,
	"return":    Return,
	"instance":  Instance,
	"class":     Class,
	"prototype": Prototype,
	"int":       TypeKeyword,
	"float":     TypeKeyword,
	"string":    TypeKeyword,
	"void":      TypeKeyword,
	"true":      BoolLiteral,
	"false":     BoolLiteral,
}

// PrefixRules returns a copy of the ordered prefix table.
func PrefixRules() []PrefixRule {
	out := make([]PrefixRule, len(prefixRules))
	copy(out, prefixRules)
	return out
}

// IsException reports whether word must always lex as a plain identifier.
func IsException(word string) bool {
	_, ok := identifierExceptions[word]
	return ok
}

// LookupPrefix returns the engine-API kind for word, using first-match-wins
// over the ordered prefix table.
func LookupPrefix(word string) (Kind, bool) {
	for _, rule := range prefixRules {
		if strings.HasPrefix(word, rule.Prefix) {
			return rule.Kind, true
		}
	}
	return Identifier, false
}

// IsSpecial reports whether word is one of the context-free special names.
func IsSpecial(word string) bool {
	_, ok := specialKeywords[strings.ToLower(word)]
	return ok
}

// LookupKeyword returns the keyword kind for word. Keywords are matched
// case-insensitively.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(word)]
	return k, ok
}

// Keywords returns the keyword spellings, including type keywords and
// boolean literals.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		out = append(out, word)
	}
	return out
}

var punctuation = map[rune]Kind{
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
	'[': LBracket,
	']': RBracket,
	';': Semicolon,
	',': Comma,
	'.': Dot,
}

// LookupPunctuation returns the bracket/punctuation kind for r.
func LookupPunctuation(r rune) (Kind, bool) {
	k, ok := punctuation[r]
	return k, ok
}

var twoCharOperators = map[string]Kind{
	"==": Eq,
	"!=": NotEq,
	"<=": LessEq,
	">=": GreaterEq,
	"&&": AndAnd,
	"||": OrOr,
	"+=": PlusAssign,
	"-=": MinusAssign,
	"*=": StarAssign,
	"/=": SlashAssign,
	"<<": ShiftLeft,
	">>": ShiftRight,
}

// LookupTwoCharOperator returns the operator kind for a two-character op.
func LookupTwoCharOperator(op string) (Kind, bool) {
	k, ok := twoCharOperators[op]
	return k, ok
}

var singleCharOperators = map[rune]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'%': Percent,
	'!': Bang,
	'~': Tilde,
	'&': Amp,
	'|': Pipe,
	'^': Caret,
	'<': Less,
	'>': Greater,
}

// LookupOperator returns the kind of a single-character operator.
func LookupOperator(r rune) (Kind, bool) {
	k, ok := singleCharOperators[r]
	return k, ok
}
