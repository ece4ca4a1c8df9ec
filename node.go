package logo

import "fmt"

// A Node is a small tagged reference into an Interp's arena. The low bits
// carry the tag and the list mark; the rest index either the word table or
// the cons cell store.
//
// The list mark is orthogonal to the tag: it records that the reference
// denotes a list rather than an atom used as a list element, and it must
// survive a store/format/reparse cycle. In particular a marked nil ("[]",
// the empty list) is a different Node value than the plain NilNode.
type Node uint32

const (
	tagNil uint32 = iota
	tagAtom
	tagCons

	tagMask  uint32 = 3
	markBit  uint32 = 4
	nodeBits        = 3
)

// NilNode is the zero Node: the end of every list chain.
const NilNode Node = 0

// EmptyList is the marked nil reference denoting a present-but-empty list.
const EmptyList = Node(markBit)

func atomNode(index int) Node { return Node(uint32(index)<<nodeBits | tagAtom) }
func consNode(index int) Node { return Node(uint32(index)<<nodeBits | tagCons) }

func (n Node) tag() uint32 { return uint32(n) & tagMask }
func (n Node) index() int  { return int(uint32(n) >> nodeBits) }

// IsNil reports whether n references nothing, marked or not.
func (n Node) IsNil() bool { return n.tag() == tagNil }

// IsAtom reports whether n references an interned word.
func (n Node) IsAtom() bool { return n.tag() == tagAtom }

// IsCons reports whether n references a cons pair.
func (n Node) IsCons() bool { return n.tag() == tagCons }

// Marked reports whether n carries the list mark.
func (n Node) Marked() bool { return uint32(n)&markBit != 0 }

// Mark returns n with the list mark set.
func (n Node) Mark() Node { return Node(uint32(n) | markBit) }

// Unmark returns n with the list mark cleared.
func (n Node) Unmark() Node { return Node(uint32(n) &^ markBit) }

// IsList reports whether n denotes a list: a cons chain or a marked nil.
func (n Node) IsList() bool { return n.IsCons() || (n.IsNil() && n.Marked()) }

// The arena owns all interned words and cons cells of one interpreter
// instance. Words are deduplicated so that byte-identical text always yields
// the same Node for the life of the instance; there is no reclamation.
type arena struct {
	words    []string
	interned map[string]Node

	heads []Node
	tails []Node

	nodeLimit int
}

// Intern returns the unique atom Node for the given text, allocating the
// word on first sight.
func (a *arena) Intern(s string) Node {
	if n, defined := a.interned[s]; defined {
		return n
	}
	if a.interned == nil {
		a.interned = make(map[string]Node)
	}
	if a.nodeLimit != 0 && len(a.words)+len(a.heads) >= a.nodeLimit {
		panic(haltError{errOutOfSpace})
	}
	n := atomNode(len(a.words))
	a.words = append(a.words, s)
	a.interned[s] = n
	return n
}

// Cons allocates a new pair. The result is unmarked; callers building a
// list reference mark the chain head themselves.
func (a *arena) Cons(head, tail Node) Node {
	if a.nodeLimit != 0 && len(a.words)+len(a.heads) >= a.nodeLimit {
		panic(haltError{errOutOfSpace})
	}
	n := consNode(len(a.heads))
	a.heads = append(a.heads, head)
	a.tails = append(a.tails, tail)
	return n
}

// Head returns the first element of a cons pair, NilNode otherwise.
func (a *arena) Head(n Node) Node {
	if n.IsCons() {
		return a.heads[n.index()]
	}
	return NilNode
}

// Tail returns the rest of a cons pair, NilNode otherwise.
func (a *arena) Tail(n Node) Node {
	if n.IsCons() {
		return a.tails[n.index()]
	}
	return NilNode
}

// SetTail overwrites the rest of a cons pair in place; used while building
// lists incrementally.
func (a *arena) SetTail(n, tail Node) {
	if !n.IsCons() {
		panic(haltError{fmt.Errorf("set-tail of non-pair node %v", n)})
	}
	a.tails[n.index()] = tail
}

// Text recovers an interned word's text. Non-atoms yield "".
func (a *arena) Text(n Node) string {
	if n.IsAtom() {
		return a.words[n.index()]
	}
	return ""
}

// ListLen counts the pairs of a list chain.
func (a *arena) ListLen(n Node) int {
	count := 0
	for n.IsCons() {
		count++
		n = a.Tail(n)
	}
	return count
}

// listBuilder accumulates a NIL-terminated chain front to back.
type listBuilder struct {
	a     *arena
	first Node
	last  Node
}

func (lb *listBuilder) append(n Node) {
	cell := lb.a.Cons(n, NilNode)
	if lb.first.IsNil() {
		lb.first = cell
	} else {
		lb.a.SetTail(lb.last, cell)
	}
	lb.last = cell
}

// list returns the chain built so far, marked as a list. An empty build
// yields EmptyList, not NilNode.
func (lb *listBuilder) list() Node {
	if lb.first.IsNil() {
		return EmptyList
	}
	return lb.first.Mark()
}
