package logo

import "strings"

// A Procedure is one user definition. The body holds the parameter list as
// its first element and one marked list per body line after that; empty
// lines and empty lists survive a format/reparse cycle verbatim.
type Procedure struct {
	name   Node   // folded intern, the store key
	title  string // name as first defined, for prompts and messages
	params []Node // folded interns, bound in order at invocation
	body   Node   // marked list: (paramlist line...)
	lines  []Node // body lines unpacked from body, evaluator's view

	traced  bool
	stepped bool
}

// Name returns the procedure's name as defined.
func (p *Procedure) Name() string { return p.title }

// Body returns the stored definition list: parameter list first, then one
// element per body line.
func (p *Procedure) Body() Node { return p.body }

type procStore struct {
	procs map[Node]*Procedure
	order []Node
}

func (in *Interp) foldIntern(s string) Node {
	return in.Intern(strings.ToLower(s))
}

// ProcFind returns the named user procedure, nil when undefined.
func (in *Interp) ProcFind(name string) *Procedure {
	return in.procs.procs[in.foldIntern(name)]
}

// ProcExists reports whether name is a defined user procedure.
func (in *Interp) ProcExists(name string) bool { return in.ProcFind(name) != nil }

// ProcErase removes a user definition; erasing an unknown name is a no-op.
func (in *Interp) ProcErase(name string) {
	key := in.foldIntern(name)
	if _, defined := in.procs.procs[key]; !defined {
		return
	}
	delete(in.procs.procs, key)
	for i, n := range in.procs.order {
		if n == key {
			in.procs.order = append(in.procs.order[:i], in.procs.order[i+1:]...)
			break
		}
	}
}

// ProcNames lists defined procedures in definition order.
func (in *Interp) ProcNames() []string {
	names := make([]string, 0, len(in.procs.order))
	for _, key := range in.procs.order {
		names = append(names, in.procs.procs[key].title)
	}
	return names
}

func (in *Interp) storeProc(p *Procedure) {
	if in.procs.procs == nil {
		in.procs.procs = make(map[Node]*Procedure)
	}
	if _, defined := in.procs.procs[p.name]; !defined {
		in.procs.order = append(in.procs.order, p.name)
	}
	in.procs.procs[p.name] = p
}

// ProcDefine stores a definition from an already-parsed body list whose
// first element is the parameter list (words with or without their colons)
// and whose remaining elements are body lines. Primitive names are
// protected.
func (in *Interp) ProcDefine(name string, def Node) Result {
	if in.isPrimitive(name) {
		return resultError(ErrIsPrimitive, "define", name)
	}
	if !def.IsList() {
		return resultError(ErrDoesntLikeInput, "define", in.format(ListValue(def), true))
	}
	p := &Procedure{name: in.foldIntern(name), title: name, body: def}
	paramList := in.Head(def)
	if !paramList.IsList() {
		return resultError(ErrDoesntLikeInput, "define", in.formatParam(paramList))
	}
	for n := paramList.Unmark(); n.IsCons(); n = in.Tail(n) {
		param := in.Head(n)
		if !param.IsAtom() {
			return resultError(ErrDoesntLikeInput, "define", in.formatParam(param))
		}
		p.params = append(p.params, in.foldIntern(strings.TrimPrefix(in.Text(param), ":")))
	}
	for n := in.Tail(def.Unmark()); n.IsCons(); n = in.Tail(n) {
		p.lines = append(p.lines, in.Head(n))
	}
	in.storeProc(p)
	return resultNone
}

func (in *Interp) formatParam(n Node) string {
	if n.IsList() {
		return "[" + in.format(ListValue(n), false) + "]"
	}
	return in.Text(n)
}

// ProcDefineFromText parses a "to name :params ... end" block. The
// terminating end must be the sole content of its own line and outside any
// open bracket group; bracket groups spanning physical lines are reassembled
// into one nested sub-list. Returns the defined name.
func (in *Interp) ProcDefineFromText(text string) (string, Result) {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return "", resultError(ErrNotEnoughInputs, "to", "")
	}

	title, params, paramList, res := in.parseTitle(lines[0])
	if res.breaks() {
		return "", res
	}
	if in.isPrimitive(title) {
		return "", resultError(ErrIsPrimitive, "to", title)
	}

	body := listBuilder{a: &in.arena}
	body.append(paramList)

	ended := false
	logical := ""
	balance := 0
	for _, line := range lines[1:] {
		if balance > 0 {
			logical += " " + line
			if balance += bracketBalance(line); balance > 0 {
				continue
			}
		} else if strings.EqualFold(strings.TrimSpace(line), "end") {
			ended = true
			break
		} else {
			logical = line
			if balance = bracketBalance(line); balance > 0 {
				continue
			}
		}

		parsed, res := in.ParseLine(logical)
		if res.breaks() {
			return "", res
		}
		body.append(parsed)
		logical, balance = "", 0
	}
	if !ended {
		return "", resultError(ErrNotEnoughInputs, "to", "")
	}

	p := &Procedure{name: in.foldIntern(title), title: title, body: body.list()}
	for _, param := range params {
		p.params = append(p.params, in.foldIntern(param))
	}
	for n := in.Tail(p.body.Unmark()); n.IsCons(); n = in.Tail(n) {
		p.lines = append(p.lines, in.Head(n))
	}
	in.storeProc(p)
	return title, resultNone
}

func (in *Interp) parseTitle(line string) (title string, params []string, paramList Node, res Result) {
	lx := lexer{src: line}
	if tok := lx.next(); tok.kind != tokWord || !strings.EqualFold(tok.text, "to") {
		return "", nil, NilNode, resultError(ErrNotEnoughInputs, "to", "")
	}
	name := lx.next()
	if name.kind != tokWord {
		return "", nil, NilNode, resultError(ErrNotEnoughInputs, "to", "")
	}
	lb := listBuilder{a: &in.arena}
	for {
		tok := lx.next()
		switch tok.kind {
		case tokEOF:
			return name.text, params, lb.list(), resultNone
		case tokColon:
			params = append(params, tok.text)
			lb.append(in.Intern(":" + tok.text))
		default:
			return "", nil, NilNode, resultError(ErrDoesntLikeInput, "to", tok.text)
		}
	}
}

// FormatProc renders a definition back to the text form ProcDefineFromText
// accepts; the two compose to the identity on stored bodies.
func (in *Interp) FormatProc(p *Procedure) string {
	var sb strings.Builder
	sb.WriteString("to ")
	sb.WriteString(p.title)
	for n := in.Head(p.body).Unmark(); n.IsCons(); n = in.Tail(n) {
		sb.WriteByte(' ')
		sb.WriteString(in.Text(in.Head(n)))
	}
	sb.WriteByte('\n')
	for _, line := range p.lines {
		in.formatChain(&sb, line)
		sb.WriteByte('\n')
	}
	sb.WriteString("end\n")
	return sb.String()
}
