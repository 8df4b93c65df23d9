package sqlfe

// TokenKind enumerates every token the scanner produces.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenStr
	TokenComma
	TokenEquals
	TokenLParen
	TokenRParen
	TokenStar

	// keywords
	TokenSelect
	TokenFrom
	TokenCreate
	TokenTable
	TokenIndex
	TokenWhere
	TokenOn
)

var keywords = map[string]TokenKind{
	"select": TokenSelect,
	"from":   TokenFrom,
	"create": TokenCreate,
	"table":  TokenTable,
	"index":  TokenIndex,
	"where":  TokenWhere,
	"on":     TokenOn,
}

// Token is one scanned lexeme: its kind, its position in the source, and
// its literal text (meaningful for TokenIdent and TokenStr).
type Token struct {
	Kind TokenKind
	Pos  int
	Text string
}
