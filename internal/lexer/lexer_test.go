package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `( ) { } , . - + ; / * ? :`

	tests := []struct {
		expectedType   TokenType
		expectedLexeme string
	}{
		{LEFT_PAREN, "("},
		{RIGHT_PAREN, ")"},
		{LEFT_BRACE, "{"},
		{RIGHT_BRACE, "}"},
		{COMMA, ","},
		{DOT, "."},
		{MINUS, "-"},
		{PLUS, "+"},
		{SEMICOLON, ";"},
		{SLASH, "/"},
		{STAR, "*"},
		{QUESTION, "?"},
		{COLON, ":"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong. expected=%s, got=%s", i, tt.expectedType, tok.Type)
		}
		if tok.Lexeme() != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme())
		}
	}
}

func TestNextTokenTwoCharOperators(t *testing.T) {
	input := `! != = == < <= > >=`

	tests := []TokenType{BANG, BANG_EQUAL, EQUAL, EQUAL_EQUAL, LESS, LESS_EQUAL, GREATER, GREATER_EQUAL, EOF}

	l := New(input)
	for i, want := range tests {
		tok := l.Next()
		if tok.Type != want {
			t.Fatalf("tests[%d] - type wrong. expected=%s, got=%s", i, want, tok.Type)
		}
	}
}

func TestNextTokenKeywordsAndIdentifiers(t *testing.T) {
	input := `and class case continue default else false for fun if nil or print return super switch this true var while foo bar2 _baz`

	want := []TokenType{
		AND, CLASS, CASE, CONTINUE, DEFAULT, ELSE, FALSE, FOR, FUN, IF, NIL, OR,
		PRINT, RETURN, SUPER, SWITCH, THIS, TRUE, VAR, WHILE,
		IDENTIFIER, IDENTIFIER, IDENTIFIER, EOF,
	}

	l := New(input)
	for i, tt := range want {
		tok := l.Next()
		if tok.Type != tt {
			t.Fatalf("tests[%d] - type wrong. expected=%s, got=%s (%q)", i, tt, tok.Type, tok.Lexeme())
		}
	}
}

func TestNextTokenNumbers(t *testing.T) {
	input := `0 1.5 123 3.14159`
	l := New(input)
	for i := 0; i < 4; i++ {
		tok := l.Next()
		if tok.Type != NUMBER {
			t.Fatalf("tests[%d] - expected NUMBER, got %s", i, tok.Type)
		}
	}
	if eof := l.Next(); eof.Type != EOF {
		t.Fatalf("expected EOF, got %s", eof.Type)
	}
}

func TestNextTokenString(t *testing.T) {
	l := New(`"hello world"`)
	tok := l.Next()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	if tok.Lexeme() != `"hello world"` {
		t.Fatalf("unexpected lexeme %q", tok.Lexeme())
	}
}

func TestNextTokenMultilineString(t *testing.T) {
	l := New("\"line one\nline two\"")
	tok := l.Next()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	next := l.Next()
	if next.Line != 2 {
		t.Fatalf("expected line counter to advance past the embedded newline, got line %d", next.Line)
	}
}

func TestNextTokenUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	tok := l.Next()
	if tok.Type != ERROR {
		t.Fatalf("expected ERROR, got %s", tok.Type)
	}
}

func TestNextTokenUnterminatedBlockComment(t *testing.T) {
	l := New(`/* never closes`)
	tok := l.Next()
	if tok.Type != ERROR {
		t.Fatalf("expected ERROR, got %s", tok.Type)
	}
	if tok.Lexeme() != "Unterminated block comment." {
		t.Fatalf("unexpected message %q", tok.Lexeme())
	}
}

func TestNextTokenUnterminatedNestedBlockComment(t *testing.T) {
	l := New(`/* outer /* inner never closes`)
	tok := l.Next()
	if tok.Type != ERROR {
		t.Fatalf("expected ERROR, got %s", tok.Type)
	}
}

func TestNextTokenNestedBlockComment(t *testing.T) {
	l := New("/* outer /* inner */ still-comment */ 42")
	tok := l.Next()
	if tok.Type != NUMBER {
		t.Fatalf("expected nested block comment to be fully skipped, got %s %q", tok.Type, tok.Lexeme())
	}
}

func TestNextTokenLineComment(t *testing.T) {
	l := New("1 // this is ignored\n2")
	first := l.Next()
	if first.Type != NUMBER || first.Lexeme() != "1" {
		t.Fatalf("unexpected first token %q", first.Lexeme())
	}
	second := l.Next()
	if second.Type != NUMBER || second.Lexeme() != "2" {
		t.Fatalf("unexpected second token %q", second.Lexeme())
	}
	if second.Line != 2 {
		t.Fatalf("expected line 2, got %d", second.Line)
	}
}

func TestNextTokenEOFRepeats(t *testing.T) {
	l := New("")
	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.Type != EOF {
			t.Fatalf("expected repeated EOF, got %s", tok.Type)
		}
	}
}
