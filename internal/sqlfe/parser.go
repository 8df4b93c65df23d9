package sqlfe

import "strings"

// Parser is a recursive-descent parser over the token stream produced by
// Scanner.
type Parser struct {
	s *Scanner
}

// Parse scans and parses src into a single Statement.
func Parse(src string) (Statement, error) {
	p := &Parser{s: New(src)}
	tok, err := p.s.Peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokenSelect:
		return p.parseSelect()
	case TokenCreate:
		return p.parseCreate()
	default:
		return nil, newError(KindSyntax, tok.Pos, "expected SELECT or CREATE, got %q", tok.Text)
	}
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	tok, err := p.s.Next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		return Token{}, newError(KindSyntax, tok.Pos, "expected %s, got %q", what, tok.Text)
	}
	return tok, nil
}

func (p *Parser) parseSelect() (Statement, error) {
	if _, err := p.expect(TokenSelect, "SELECT"); err != nil {
		return nil, err
	}

	var exprs []Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)

		tok, err := p.s.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenComma {
			break
		}
		if _, err := p.s.Next(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenFrom, "FROM"); err != nil {
		return nil, err
	}
	tableTok, err := p.expect(TokenIdent, "table name")
	if err != nil {
		return nil, err
	}

	var where *Cond
	tok, err := p.s.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokenWhere {
		if _, err := p.s.Next(); err != nil {
			return nil, err
		}
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		where = &cond
	}

	if _, err := p.expect(TokenEOF, "end of statement"); err != nil {
		return nil, err
	}

	return &Select{Exprs: exprs, Table: tableTok.Text, Where: where}, nil
}

// parseExpr implements `Expr := STR | STAR | IDENT ( "(" Expr ")" )?`.
func (p *Parser) parseExpr() (Expr, error) {
	tok, err := p.s.Next()
	if err != nil {
		return Expr{}, err
	}
	switch tok.Kind {
	case TokenStr:
		return Expr{Kind: ExprStr, Str: tok.Text}, nil
	case TokenStar:
		return Expr{Kind: ExprStar}, nil
	case TokenIdent:
		peek, err := p.s.Peek()
		if err != nil {
			return Expr{}, err
		}
		if peek.Kind == TokenLParen {
			if _, err := p.s.Next(); err != nil {
				return Expr{}, err
			}
			arg, err := p.parseExpr()
			if err != nil {
				return Expr{}, err
			}
			if _, err := p.expect(TokenRParen, ")"); err != nil {
				return Expr{}, err
			}
			return Expr{Kind: ExprCall, Name: strings.ToLower(tok.Text), Arg: &arg}, nil
		}
		return Expr{Kind: ExprColumn, Name: tok.Text}, nil
	default:
		return Expr{}, newError(KindSyntax, tok.Pos, "expected expression, got %q", tok.Text)
	}
}

// parseCond implements `Cond := col = literal`.
func (p *Parser) parseCond() (Cond, error) {
	col, err := p.expect(TokenIdent, "column reference")
	if err != nil {
		return Cond{}, err
	}
	if _, err := p.expect(TokenEquals, "="); err != nil {
		return Cond{}, err
	}
	lit, err := p.expect(TokenStr, "string literal")
	if err != nil {
		return Cond{}, err
	}
	return Cond{Column: col.Text, Literal: lit.Text}, nil
}

func (p *Parser) parseCreate() (Statement, error) {
	if _, err := p.expect(TokenCreate, "CREATE"); err != nil {
		return nil, err
	}
	tok, err := p.s.Peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokenTable:
		return p.parseCreateTable()
	case TokenIndex:
		return p.parseCreateIndex()
	default:
		return nil, newError(KindSyntax, tok.Pos, "expected TABLE or INDEX, got %q", tok.Text)
	}
}

// parseCreateTable implements
// `CreateTable := CREATE TABLE IDENT ( ColumnDef (, ColumnDef)* )`.
func (p *Parser) parseCreateTable() (Statement, error) {
	if _, err := p.expect(TokenTable, "TABLE"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokenIdent, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen, "("); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)

		tok, err := p.s.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenComma {
			break
		}
		if _, err := p.s.Next(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenRParen, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEOF, "end of statement"); err != nil {
		return nil, err
	}

	return &CreateTable{Table: nameTok.Text, Columns: cols}, nil
}

// parseColumnDef implements `ColumnDef := IDENT (IDENT)*`.
func (p *Parser) parseColumnDef() (ColumnDef, error) {
	nameTok, err := p.expect(TokenIdent, "column name")
	if err != nil {
		return ColumnDef{}, err
	}
	var mods []string
	for {
		tok, err := p.s.Peek()
		if err != nil {
			return ColumnDef{}, err
		}
		if tok.Kind != TokenIdent {
			break
		}
		if _, err := p.s.Next(); err != nil {
			return ColumnDef{}, err
		}
		mods = append(mods, strings.ToLower(tok.Text))
	}
	return ColumnDef{Name: nameTok.Text, Modifiers: mods}, nil
}

// parseCreateIndex implements
// `CreateIndex := CREATE INDEX IDENT ON IDENT ( IDENT )`.
func (p *Parser) parseCreateIndex() (Statement, error) {
	if _, err := p.expect(TokenIndex, "INDEX"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokenIdent, "index name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenOn, "ON"); err != nil {
		return nil, err
	}
	tableTok, err := p.expect(TokenIdent, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen, "("); err != nil {
		return nil, err
	}
	colTok, err := p.expect(TokenIdent, "column name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEOF, "end of statement"); err != nil {
		return nil, err
	}

	return &CreateIndex{Name: nameTok.Text, Table: tableTok.Text, Column: colTok.Text}, nil
}
