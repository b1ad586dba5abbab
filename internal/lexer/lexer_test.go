package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grendeldb/grendel/internal/lexer"
)

func collect(input string) []lexer.Token {
	l := lexer.New(input)
	var tokens []lexer.Token
	for {
		tok := l.NextToken()
		if tok.Type == lexer.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestCreateTableTokens(t *testing.T) {
	tokens := collect("CREATE TABLE users (id INT NOT NULL UNIQUE, name TEXT DEFAULT 'anon')")

	expected := []lexer.Token{
		{Type: lexer.KEYWORD, Literal: "CREATE"},
		{Type: lexer.KEYWORD, Literal: "TABLE"},
		{Type: lexer.IDENTIFIER, Literal: "users"},
		{Type: lexer.LPAREN, Literal: "("},
		{Type: lexer.IDENTIFIER, Literal: "id"},
		{Type: lexer.KEYWORD, Literal: "INT"},
		{Type: lexer.KEYWORD, Literal: "NOT"},
		{Type: lexer.KEYWORD, Literal: "NULL"},
		{Type: lexer.KEYWORD, Literal: "UNIQUE"},
		{Type: lexer.COMMA, Literal: ","},
		{Type: lexer.IDENTIFIER, Literal: "name"},
		{Type: lexer.KEYWORD, Literal: "TEXT"},
		{Type: lexer.KEYWORD, Literal: "DEFAULT"},
		{Type: lexer.STRING, Literal: "anon"},
		{Type: lexer.RPAREN, Literal: ")"},
	}
	assert.Equal(t, expected, tokens)
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	tokens := collect("select * from users")

	assert.Equal(t, lexer.Token{Type: lexer.KEYWORD, Literal: "SELECT"}, tokens[0])
	assert.Equal(t, lexer.Token{Type: lexer.ASTERISK, Literal: "*"}, tokens[1])
	assert.Equal(t, lexer.Token{Type: lexer.KEYWORD, Literal: "FROM"}, tokens[2])
	assert.Equal(t, lexer.Token{Type: lexer.IDENTIFIER, Literal: "users"}, tokens[3])
}

func TestNumbersAndStrings(t *testing.T) {
	tokens := collect("WHERE age = -3.5 AND name = \"Bob\"")

	assert.Equal(t, []lexer.Token{
		{Type: lexer.KEYWORD, Literal: "WHERE"},
		{Type: lexer.IDENTIFIER, Literal: "age"},
		{Type: lexer.EQUALS, Literal: "="},
		{Type: lexer.NUMBER, Literal: "-3.5"},
		{Type: lexer.KEYWORD, Literal: "AND"},
		{Type: lexer.IDENTIFIER, Literal: "name"},
		{Type: lexer.EQUALS, Literal: "="},
		{Type: lexer.STRING, Literal: "Bob"},
	}, tokens)
}

func TestStringEscapes(t *testing.T) {
	// A backslash lets the quote character itself appear in the literal.
	tokens := collect(`WHERE name = 'it\'s'`)

	assert.Equal(t, lexer.Token{Type: lexer.STRING, Literal: "it's"}, tokens[3])

	tokens = collect(`SET note = "a \"quoted\" word"`)
	assert.Equal(t, lexer.Token{Type: lexer.STRING, Literal: `a "quoted" word`}, tokens[3])

	// An escaped backslash stays a single backslash.
	tokens = collect(`SET note = 'a\\b'`)
	assert.Equal(t, lexer.Token{Type: lexer.STRING, Literal: `a\b`}, tokens[3])
}

func TestBooleanAndNullLiterals(t *testing.T) {
	tokens := collect("VALUES (TRUE, false, NULL)")

	assert.Equal(t, lexer.Token{Type: lexer.KEYWORD, Literal: "TRUE"}, tokens[2])
	assert.Equal(t, lexer.Token{Type: lexer.KEYWORD, Literal: "FALSE"}, tokens[4])
	assert.Equal(t, lexer.Token{Type: lexer.KEYWORD, Literal: "NULL"}, tokens[6])
}

func TestEmptyInput(t *testing.T) {
	l := lexer.New("")
	assert.Equal(t, lexer.EOF, l.NextToken().Type)
}
