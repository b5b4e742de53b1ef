package token

import "strings"

// surface is one spelling of an operator.
type surface struct {
	text string
	op   Op
}

// registry lists every surface spelling in registration order. The first
// spelling registered for an Op is the one Symbol returns, so the order here
// decides how rendered predicates spell operators.
var registry = []surface{
	{"not", Not},
	{"and", And},
	{"or", Or},
	{"&", And},
	{"|", Or},
	{"(", LParen},
	{")", RParen},
	{",", List},
	{"is", Is},
	{"=", Eq},
	{"!=", Ne},
	{"<>", Ne},
	{"<", Lt},
	{"<=", Le},
	{">", Gt},
	{">=", Ge},
	{"**", Exp},
	{"*", Mul},
	{"/", Div},
	{"mod", Mod},
	{"+", Add},
	{"-", Sub},
	{"||", Concat},
	{".", Member},
	{"[", Subscr},
	{"]", RBracket},
	{"contains", Contains},
	{"like", Like},
	{"likefile", LikeFile},
	{"in", In},
	{"between", Between},
	{"null", Null},
}

// Both tables are filled once by init and only read afterwards, so they are
// safe to share between goroutines without locking.
var (
	keywords = make(map[string]Op, len(registry))
	symbols  [maxOp]string
)

func init() {
	for _, s := range registry {
		keywords[s.text] = s.op
		if symbols[s.op] == "" {
			symbols[s.op] = s.text
		}
	}
}

// Lookup returns the Op a surface token stands for. The match is
// case-insensitive. Literals and names report false.
func Lookup(text string) (Op, bool) {
	op, ok := keywords[strings.ToLower(text)]
	return op, ok
}

// Symbol returns the first registered surface spelling of op, or "" when op
// has none (nop, val, pos, neg).
func Symbol(op Op) string {
	if op < 0 || op >= maxOp {
		return ""
	}
	return symbols[op]
}

// Surfaces returns every spelling registered for op, in registration order.
func Surfaces(op Op) []string {
	var out []string
	for _, s := range registry {
		if s.op == op {
			out = append(out, s.text)
		}
	}
	return out
}
