// Package parser turns SQL text into executable statements. Typing textual
// literals is its job; the engine below it only sees typed values.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grendeldb/grendel/internal/lexer"
	"github.com/grendeldb/grendel/internal/types"
)

// Parser is a recursive-descent parser over the lexer's token stream.
type Parser struct {
	l    *lexer.Lexer
	tok  lexer.Token
	peek lexer.Token
}

// New creates a new parser with the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Parse parses one SQL statement.
func Parse(sql string) (Statement, error) {
	return New(lexer.New(sql)).Parse()
}

func (p *Parser) next() {
	p.tok = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) expect(typ lexer.TokenType, what string) (lexer.Token, error) {
	if p.tok.Type != typ {
		return lexer.Token{}, fmt.Errorf("expected %s, got %q", what, p.tok.Literal)
	}
	tok := p.tok
	p.next()
	return tok, nil
}

func (p *Parser) expectKeyword(word string) error {
	if p.tok.Type != lexer.KEYWORD || p.tok.Literal != word {
		return fmt.Errorf("expected %s, got %q", word, p.tok.Literal)
	}
	p.next()
	return nil
}

func (p *Parser) atEnd() bool {
	return p.tok.Type == lexer.EOF || p.tok.Type == lexer.SEMICOLON
}

// Parse parses the statement the parser was constructed over.
func (p *Parser) Parse() (Statement, error) {
	if p.tok.Type == lexer.EOF {
		return nil, fmt.Errorf("empty statement")
	}

	switch p.tok.Literal {
	case "CREATE":
		return p.parseCreateTable()
	case "INSERT":
		return p.parseInsert()
	case "SELECT":
		return p.parseSelect()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	case "DROP":
		return p.parseDropTable()
	case "ALTER":
		return p.parseRenameTable()
	case "SHOW":
		return p.parseShowTables()
	default:
		return nil, fmt.Errorf("unsupported statement type: %s", p.tok.Literal)
	}
}

func (p *Parser) parseCreateTable() (*CreateTableStatement, error) {
	p.next() // CREATE
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.IDENTIFIER, "table name")
	if err != nil {
		return nil, err
	}
	stmt := &CreateTableStatement{Table: name.Literal}

	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}

	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		if p.tok.Type == lexer.RPAREN {
			p.next()
			break
		}
		if _, err := p.expect(lexer.COMMA, "comma or )"); err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

func (p *Parser) parseColumnDef() (ColumnDef, error) {
	name, err := p.expect(lexer.IDENTIFIER, "column name")
	if err != nil {
		return ColumnDef{}, err
	}

	if p.tok.Type != lexer.KEYWORD {
		return ColumnDef{}, fmt.Errorf("expected column type, got %q", p.tok.Literal)
	}
	typ, ok := types.ParseValueType(p.tok.Literal)
	if !ok {
		return ColumnDef{}, fmt.Errorf("unknown column type: %s", p.tok.Literal)
	}
	p.next()

	def := ColumnDef{Name: name.Literal, Type: typ}
	for p.tok.Type == lexer.KEYWORD {
		switch p.tok.Literal {
		case "NOT":
			p.next()
			if err := p.expectKeyword("NULL"); err != nil {
				return ColumnDef{}, err
			}
			def.NotNull = true
		case "UNIQUE":
			p.next()
			def.Unique = true
		case "DEFAULT":
			p.next()
			v, err := p.parseLiteral()
			if err != nil {
				return ColumnDef{}, err
			}
			def.Default = &v
		default:
			return ColumnDef{}, fmt.Errorf("unexpected keyword in column definition: %s", p.tok.Literal)
		}
	}

	return def, nil
}

func (p *Parser) parseInsert() (*InsertStatement, error) {
	p.next() // INSERT
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.IDENTIFIER, "table name")
	if err != nil {
		return nil, err
	}
	stmt := &InsertStatement{Table: name.Literal}

	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	for {
		col, err := p.expect(lexer.IDENTIFIER, "column name")
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col.Literal)

		if p.tok.Type == lexer.RPAREN {
			p.next()
			break
		}
		if _, err := p.expect(lexer.COMMA, "comma or )"); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	for {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, v)

		if p.tok.Type == lexer.RPAREN {
			p.next()
			break
		}
		if _, err := p.expect(lexer.COMMA, "comma or )"); err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

func (p *Parser) parseSelect() (*SelectStatement, error) {
	p.next() // SELECT
	stmt := &SelectStatement{}

	if p.tok.Type == lexer.ASTERISK {
		p.next()
	} else {
		for {
			col, err := p.expect(lexer.IDENTIFIER, "column name")
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col.Literal)
			if p.tok.Type != lexer.COMMA {
				break
			}
			p.next()
		}
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENTIFIER, "table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = name.Literal

	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where

	return stmt, nil
}

func (p *Parser) parseUpdate() (*UpdateStatement, error) {
	p.next() // UPDATE

	name, err := p.expect(lexer.IDENTIFIER, "table name")
	if err != nil {
		return nil, err
	}
	stmt := &UpdateStatement{Table: name.Literal, Set: make(map[string]types.Value)}

	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	for {
		col, err := p.expect(lexer.IDENTIFIER, "column name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQUALS, "="); err != nil {
			return nil, err
		}
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Set[col.Literal] = v

		if p.tok.Type != lexer.COMMA {
			break
		}
		p.next()
	}

	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where

	return stmt, nil
}

func (p *Parser) parseDelete() (*DeleteStatement, error) {
	p.next() // DELETE
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.IDENTIFIER, "table name")
	if err != nil {
		return nil, err
	}
	stmt := &DeleteStatement{Table: name.Literal}

	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where

	return stmt, nil
}

func (p *Parser) parseDropTable() (*DropTableStatement, error) {
	p.next() // DROP
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENTIFIER, "table name")
	if err != nil {
		return nil, err
	}
	return &DropTableStatement{Table: name.Literal}, nil
}

func (p *Parser) parseRenameTable() (*RenameTableStatement, error) {
	p.next() // ALTER
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENTIFIER, "table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("RENAME"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	newName, err := p.expect(lexer.IDENTIFIER, "new table name")
	if err != nil {
		return nil, err
	}
	return &RenameTableStatement{Table: name.Literal, NewName: newName.Literal}, nil
}

func (p *Parser) parseShowTables() (*ShowTablesStatement, error) {
	p.next() // SHOW
	if err := p.expectKeyword("TABLES"); err != nil {
		return nil, err
	}
	return &ShowTablesStatement{}, nil
}

// parseWhere parses an optional `WHERE col = literal [AND ...]` clause.
func (p *Parser) parseWhere() (map[string]types.Value, error) {
	if p.atEnd() {
		return nil, nil
	}
	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}

	where := make(map[string]types.Value)
	for {
		col, err := p.expect(lexer.IDENTIFIER, "column name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQUALS, "="); err != nil {
			return nil, err
		}
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		where[col.Literal] = v

		if p.tok.Type != lexer.KEYWORD || p.tok.Literal != "AND" {
			break
		}
		p.next()
	}

	if !p.atEnd() {
		return nil, fmt.Errorf("unexpected trailing input: %q", p.tok.Literal)
	}
	return where, nil
}

// parseLiteral types a literal token: numbers without a dot become INT,
// with a dot FLOAT; TRUE/FALSE become BOOL; NULL becomes the null marker.
func (p *Parser) parseLiteral() (types.Value, error) {
	tok := p.tok
	switch {
	case tok.Type == lexer.NUMBER:
		p.next()
		if strings.Contains(tok.Literal, ".") {
			f, err := strconv.ParseFloat(tok.Literal, 64)
			if err != nil {
				return types.Value{}, fmt.Errorf("invalid number: %s", tok.Literal)
			}
			return types.NewFloat(f), nil
		}
		i, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return types.Value{}, fmt.Errorf("invalid number: %s", tok.Literal)
		}
		return types.NewInt(i), nil
	case tok.Type == lexer.STRING:
		p.next()
		return types.NewText(tok.Literal), nil
	case tok.Type == lexer.KEYWORD && tok.Literal == "TRUE":
		p.next()
		return types.NewBool(true), nil
	case tok.Type == lexer.KEYWORD && tok.Literal == "FALSE":
		p.next()
		return types.NewBool(false), nil
	case tok.Type == lexer.KEYWORD && tok.Literal == "NULL":
		p.next()
		return types.Null(), nil
	default:
		return types.Value{}, fmt.Errorf("expected literal, got %q", tok.Literal)
	}
}
