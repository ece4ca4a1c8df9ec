package logo

import "strings"

// The lexer is a single pass over one line of text. It produces words,
// numbers, quoted literals, colon references, the seven operators, brackets,
// and parentheses; everything else it leaves for the evaluator to judge.
type lexer struct {
	src string
	pos int
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokNumber
	tokQuoted
	tokColon
	tokOperator
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func isDelimiter(c byte) bool {
	switch c {
	case '[', ']', '(', ')', '+', '-', '*', '/', '=', '<', '>':
		return true
	}
	return isSpace(c)
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func (lx *lexer) peek() byte {
	if lx.pos < len(lx.src) {
		return lx.src[lx.pos]
	}
	return 0
}

func (lx *lexer) next() token {
	for lx.pos < len(lx.src) && isSpace(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF}
	}

	start := lx.pos
	c := lx.src[lx.pos]
	switch c {
	case '[':
		lx.pos++
		return token{kind: tokLBracket, text: "["}
	case ']':
		lx.pos++
		return token{kind: tokRBracket, text: "]"}
	case '(':
		lx.pos++
		return token{kind: tokLParen, text: "("}
	case ')':
		lx.pos++
		return token{kind: tokRParen, text: ")"}
	case '+', '*', '/', '=', '<', '>':
		lx.pos++
		return token{kind: tokOperator, text: lx.src[start:lx.pos]}
	case '-':
		// A minus directly attached to the digits of a number, and not
		// glued to a preceding term, is a negative literal. Anything else
		// is the subtraction operator: ":x - 1" subtracts, "-5" pushes -5.
		next := byte(0)
		if lx.pos+1 < len(lx.src) {
			next = lx.src[lx.pos+1]
		}
		if (isDigit(next) || next == '.') && lx.precededByBreak(start) {
			lx.pos++
			return lx.scanNumber(start)
		}
		lx.pos++
		return token{kind: tokOperator, text: "-"}
	case '"':
		lx.pos++
		word := lx.pos
		for lx.pos < len(lx.src) && !isSpace(lx.src[lx.pos]) &&
			lx.src[lx.pos] != '[' && lx.src[lx.pos] != ']' &&
			lx.src[lx.pos] != '(' && lx.src[lx.pos] != ')' {
			lx.pos++
		}
		return token{kind: tokQuoted, text: lx.src[word:lx.pos]}
	case ':':
		lx.pos++
		word := lx.pos
		for lx.pos < len(lx.src) && !isDelimiter(lx.src[lx.pos]) {
			lx.pos++
		}
		if lx.pos == word {
			return token{kind: tokWord, text: ":"}
		}
		return token{kind: tokColon, text: lx.src[word:lx.pos]}
	}

	if isDigit(c) || (c == '.' && isDigit(lx.peekAt(lx.pos+1))) {
		return lx.scanNumber(start)
	}

	for lx.pos < len(lx.src) && !isDelimiter(lx.src[lx.pos]) {
		lx.pos++
	}
	return token{kind: tokWord, text: lx.src[start:lx.pos]}
}

func (lx *lexer) peekAt(i int) byte {
	if i < len(lx.src) {
		return lx.src[i]
	}
	return 0
}

// precededByBreak reports whether position i begins a fresh term: start of
// line, after whitespace, or after an opening bracket or parenthesis.
func (lx *lexer) precededByBreak(i int) bool {
	if i == 0 {
		return true
	}
	switch lx.src[i-1] {
	case '(', '[':
		return true
	}
	return isSpace(lx.src[i-1])
}

func (lx *lexer) scanNumber(start int) token {
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		lx.pos++
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}
	// a trailing non-delimiter turns the whole run back into a word
	if lx.pos < len(lx.src) && !isDelimiter(lx.src[lx.pos]) {
		for lx.pos < len(lx.src) && !isDelimiter(lx.src[lx.pos]) {
			lx.pos++
		}
		return token{kind: tokWord, text: lx.src[start:lx.pos]}
	}
	return token{kind: tokNumber, text: lx.src[start:lx.pos]}
}

// ParseLine reads one logical line of text into a marked list of tokens,
// reassembling bracketed groups into properly nested sub-lists. An empty
// line yields EmptyList, which is preserved as such in procedure bodies.
func (in *Interp) ParseLine(text string) (Node, Result) {
	lx := lexer{src: text}
	list, stop, res := in.parseChain(&lx, false)
	if res.Status != StatusNone {
		return NilNode, res
	}
	if stop.kind == tokRBracket {
		return NilNode, resultError(ErrUnexpectedBracket, "", "")
	}
	return list, resultNone
}

// parseChain consumes tokens until EOF or, when nested, a closing bracket.
// It returns the terminating token so the caller can validate it.
func (in *Interp) parseChain(lx *lexer, nested bool) (Node, token, Result) {
	lb := listBuilder{a: &in.arena}
	for {
		tok := lx.next()
		switch tok.kind {
		case tokEOF:
			if nested {
				return NilNode, tok, resultError(ErrTooFewItems, "", "["+lx.src)
			}
			return lb.list(), tok, resultNone
		case tokRBracket:
			if nested {
				return lb.list(), tok, resultNone
			}
			return NilNode, tok, resultError(ErrUnexpectedBracket, "", "")
		case tokLBracket:
			sub, _, res := in.parseChain(lx, true)
			if res.Status != StatusNone {
				return NilNode, tok, res
			}
			lb.append(sub)
		case tokQuoted:
			lb.append(in.Intern(`"` + tok.text))
		case tokColon:
			lb.append(in.Intern(":" + tok.text))
		default:
			lb.append(in.Intern(tok.text))
		}
	}
}

// bracketBalance counts [ minus ] across a line of raw text; the REPL and
// the definition parser use it to join physical lines into logical ones.
func bracketBalance(line string) int {
	return strings.Count(line, "[") - strings.Count(line, "]")
}
