package javasyn

var modifiers = map[string]bool{
	"public":       true,
	"protected":    true,
	"private":      true,
	"static":       true,
	"final":        true,
	"abstract":     true,
	"native":       true,
	"synchronized": true,
	"transient":    true,
	"volatile":     true,
	"strictfp":     true,
	"default":      true,
	"sealed":       true,
}

var openers = map[string]string{")": "(", "]": "[", "}": "{"}

type parser struct {
	src   []byte
	toks  []Token
	match []int
	errs  int
}

func (p *parser) punct(i int, s string) bool {
	return i >= 0 && i < len(p.toks) && p.toks[i].is(Punct, s)
}

func (p *parser) ident(i int) bool {
	return i >= 0 && i < len(p.toks) && p.toks[i].Kind == Ident
}

func (p *parser) text(i int) string {
	if i >= 0 && i < len(p.toks) {
		return p.toks[i].Text
	}
	return ""
}

// endOf returns the end offset of token i, or the end of the source when i
// is past the last token.
func (p *parser) endOf(i int) int {
	if i >= len(p.toks) {
		return len(p.src)
	}
	return p.toks[i].End
}

// matchBrackets pairs every bracket with its partner. Unclosed openers are
// paired with len(toks).
func (p *parser) matchBrackets() []int {
	match := make([]int, len(p.toks))
	for i := range match {
		match[i] = -1
	}

	var stack []int
	for i, t := range p.toks {
		if t.Kind != Punct {
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			stack = append(stack, i)
		case ")", "]", "}":
			j := len(stack) - 1
			for j >= 0 && p.toks[stack[j]].Text != openers[t.Text] {
				j--
			}
			if j < 0 {
				p.errs++
				continue
			}
			if j != len(stack)-1 {
				p.errs++
				for _, k := range stack[j+1:] {
					match[k] = i
				}
			}
			match[stack[j]] = i
			match[i] = stack[j]
			stack = stack[:j]
		}
	}
	for _, k := range stack {
		match[k] = len(p.toks)
		p.errs++
	}
	return match
}

// closing returns the partner of opener i, clamped to the region end.
func (p *parser) closing(i, to int) int {
	c := p.match[i]
	if c < 0 || c > to {
		return to
	}
	return c
}

// skipAngle skips a type argument list starting at i.
func (p *parser) skipAngle(i, to int) int {
	depth := 0
	for ; i < to; i++ {
		switch {
		case p.punct(i, "<"):
			depth++
		case p.punct(i, ">"):
			depth--
			if depth == 0 {
				return i + 1
			}
		case p.punct(i, "("), p.punct(i, "{"), p.punct(i, ";"), p.punct(i, "="):
			return i
		}
	}
	return to
}

func (p *parser) skipModifiers(i, to int) int {
	for i < to {
		t := p.toks[i]
		switch {
		case t.Kind == Ident && modifiers[t.Text]:
			i++
		case t.is(Ident, "non") && p.punct(i+1, "-") && p.text(i+2) == "sealed":
			i += 3
		case t.is(Punct, "@") && p.text(i+1) != "interface":
			i += 2
			for p.punct(i, ".") && p.ident(i+1) {
				i += 2
			}
			if p.punct(i, "(") {
				i = p.closing(i, to) + 1
			}
		default:
			return i
		}
	}
	return to
}

// typeKeyword reports whether token i opens a type declaration.
func (p *parser) typeKeyword(i int) bool {
	if !p.ident(i) || p.punct(i-1, ".") {
		return false
	}
	switch p.toks[i].Text {
	case "class", "interface", "enum":
		return p.ident(i + 1)
	case "record":
		return p.ident(i+1) && (p.punct(i+2, "(") || p.punct(i+2, "<"))
	}
	return false
}

// anonymousBody reports whether the brace at i opens the body of an
// anonymous class, as in new T(args) {.
func (p *parser) anonymousBody(i int) bool {
	if !p.punct(i-1, ")") {
		return false
	}
	open := p.match[i-1]
	if open < 0 || open >= i-1 {
		return false
	}
	for j := open - 1; j >= 0; j-- {
		t := p.toks[j]
		switch {
		case t.is(Ident, "new"):
			return true
		case t.Kind == Ident, t.is(Punct, "."), t.is(Punct, "<"), t.is(Punct, ">"),
			t.is(Punct, ","), t.is(Punct, "?"), t.is(Punct, "@"):
		default:
			return false
		}
	}
	return false
}

// unit parses a compilation unit. Besides type declarations it accepts the
// top-level methods of an implicitly declared class; any other top-level
// statement is only searched for nested types.
func (p *parser) unit(root *Node) {
	to := len(p.toks)
	for i := 0; i < to; {
		if p.punct(i, ";") {
			i++
			continue
		}
		if p.toks[i].is(Ident, "package") || p.toks[i].is(Ident, "import") {
			i = p.statementEnd(i, to) + 1
			continue
		}
		start := i
		j := p.skipModifiers(i, to)
		switch {
		case j >= to:
			return
		case p.typeKeyword(j):
			i = p.typeDecl(root, start, j, to)
		case p.punct(j, "@") && p.typeKeyword(j+1):
			i = p.typeDecl(root, start, j+1, to)
		case p.methodHead(j, to):
			i = p.member(root, start, j, to, false)
		default:
			end := p.topStatementEnd(j, to)
			p.scan(root, j, min(end+1, to))
			i = end + 1
		}
	}
}

// methodHead reports whether the tokens from j declare a method: a result
// type, a name, a parameter list, then a body or a throws clause.
func (p *parser) methodHead(j, to int) bool {
	k := j
	for k < to {
		switch {
		case p.punct(k, "<"):
			k = p.skipAngle(k, to)
		case p.punct(k, "["):
			k = p.closing(k, to) + 1
		case p.ident(k), p.punct(k, "."), p.punct(k, "?"), p.punct(k, ","), p.punct(k, "@"):
			k++
		case p.punct(k, "("):
			name := k - 1
			if name <= j || !p.ident(name) || statementKeywords[p.text(name)] {
				return false
			}
			if prev := p.toks[name-1]; prev.is(Punct, ".") || (prev.Kind == Ident && statementKeywords[prev.Text]) {
				return false
			}
			after := p.closing(k, to) + 1
			for p.punct(after, "[") {
				after = p.closing(after, to) + 1
			}
			return p.punct(after, "{") || (after < to && p.toks[after].is(Ident, "throws"))
		default:
			return false
		}
	}
	return false
}

var statementKeywords = map[string]bool{
	"return": true,
	"throw":  true,
	"new":    true,
	"yield":  true,
	"assert": true,
	"case":   true,
	"if":     true,
	"while":  true,
	"for":    true,
	"switch": true,
	"catch":  true,
	"do":     true,
	"else":   true,
	"try":    true,
}

// topStatementEnd returns the last token of the statement starting at i. A
// block ends the statement unless a continuation keyword follows it.
func (p *parser) topStatementEnd(i, to int) int {
	for i < to {
		switch {
		case p.punct(i, ";"):
			return i
		case p.punct(i, "(") || p.punct(i, "["):
			i = p.closing(i, to) + 1
		case p.punct(i, "{"):
			close := p.closing(i, to)
			switch p.text(close + 1) {
			case "else", "catch", "finally", "while":
				i = close + 1
			default:
				return close
			}
		default:
			i++
		}
	}
	return to
}

// scan looks for type declarations and anonymous class bodies inside code
// that is not itself a declaration list.
func (p *parser) scan(parent *Node, from, to int) {
	for i := from; i < to; {
		switch {
		case p.typeKeyword(i):
			start := i
			if p.punct(i-1, "@") {
				start = i - 1
			}
			i = p.typeDecl(parent, start, i, to)
		case p.punct(i, "{") && p.anonymousBody(i):
			close := p.closing(i, to)
			node := &Node{Kind: KindType, Start: p.toks[i].Start, End: p.endOf(close)}
			p.classBody(node, i+1, close, false)
			parent.Children = append(parent.Children, node)
			i = close + 1
		default:
			i++
		}
	}
}

func (p *parser) typeDecl(parent *Node, start, kw, to int) int {
	kind := p.toks[kw].Text
	name := p.text(kw + 1)

	i := kw + 2
	for i < to && !p.punct(i, "{") {
		if p.punct(i, ";") {
			return i + 1
		}
		if p.punct(i, "(") || p.punct(i, "[") {
			i = p.closing(i, to)
		}
		i++
	}
	if i >= to {
		return to
	}

	close := p.closing(i, to)
	node := &Node{Kind: KindType, Name: name, Start: p.toks[start].Start, End: p.endOf(close)}
	parent.Children = append(parent.Children, node)
	if kind == "enum" {
		p.enumBody(node, i+1, close)
	} else {
		p.classBody(node, i+1, close, kind == "record")
	}
	return close + 1
}

func (p *parser) classBody(parent *Node, from, to int, record bool) {
	for i := from; i < to; {
		if p.punct(i, ";") {
			i++
			continue
		}
		start := i
		j := p.skipModifiers(i, to)
		switch {
		case j >= to:
			return
		case p.typeKeyword(j):
			i = p.typeDecl(parent, start, j, to)
		case p.punct(j, "@") && p.typeKeyword(j+1):
			i = p.typeDecl(parent, start, j+1, to)
		case p.punct(j, "{"):
			close := p.closing(j, to)
			p.enclose(parent, start, close, j+1, close)
			i = close + 1
		default:
			i = p.member(parent, start, j, to, record)
		}
	}
}

func (p *parser) enumBody(parent *Node, from, to int) {
	i := from
	for i < to && !p.punct(i, ";") {
		if p.punct(i, ",") {
			i++
			continue
		}
		start := i
		i = p.skipModifiers(i, to)
		name := ""
		if p.ident(i) {
			name = p.text(i)
			i++
		}
		if p.punct(i, "(") {
			close := p.closing(i, to)
			p.enclose(parent, start, close, i+1, close)
			i = close + 1
		}
		if p.punct(i, "{") {
			close := p.closing(i, to)
			node := &Node{Kind: KindType, Name: name, Start: p.toks[start].Start, End: p.endOf(close)}
			p.classBody(node, i+1, close, false)
			parent.Children = append(parent.Children, node)
			i = close + 1
		}
		if i == start {
			i++
		}
	}
	if i < to {
		p.classBody(parent, i+1, to, false)
	}
}

// member parses a field, method or constructor whose modifiers end at j.
func (p *parser) member(parent *Node, start, j, to int, record bool) int {
	k := j
	for k < to {
		if p.punct(k, "<") {
			k = p.skipAngle(k, to)
			continue
		}
		if p.punct(k, "[") {
			k = p.closing(k, to) + 1
			continue
		}
		if p.punct(k, "(") || p.punct(k, "=") || p.punct(k, ";") || p.punct(k, "{") {
			break
		}
		k++
	}
	if k >= to {
		return to
	}

	switch p.toks[k].Text {
	case "(":
		return p.method(parent, start, j, k, to)
	case "{":
		close := p.closing(k, to)
		if record && k == j+1 && p.ident(j) {
			parent.Children = append(parent.Children, &Node{
				Kind:    KindCompactConstructor,
				Name:    p.text(j),
				Start:   p.toks[start].Start,
				End:     p.endOf(close),
				HasBody: true,
			})
		} else {
			p.enclose(parent, start, close, k+1, close)
		}
		return close + 1
	}

	end := p.statementEnd(k, to)
	p.enclose(parent, start, end, k, end)
	return end + 1
}

func (p *parser) method(parent *Node, start, j, open, to int) int {
	nameIdx := open - 1
	node := &Node{Kind: KindMethod, Start: p.toks[start].Start}
	if p.ident(nameIdx) {
		node.Name = p.text(nameIdx)
	}
	if p.constructorHead(j, nameIdx) {
		node.Kind = KindConstructor
	}

	// Skip throws clauses and annotation element defaults.
	isDefault := false
	i := p.closing(open, to) + 1
	for i < to {
		if p.punct(i, ";") || (p.punct(i, "{") && !isDefault) {
			break
		}
		if p.toks[i].is(Ident, "default") {
			isDefault = true
		}
		if p.punct(i, "(") || p.punct(i, "[") || p.punct(i, "{") {
			i = p.closing(i, to) + 1
			continue
		}
		i++
	}

	if i < to && p.punct(i, "{") {
		close := p.closing(i, to)
		node.HasBody = true
		node.End = p.endOf(close)
		parent.Children = append(parent.Children, node)
		return close + 1
	}
	if i >= to {
		node.End = p.endOf(to - 1)
	} else {
		node.End = p.toks[i].End
	}
	parent.Children = append(parent.Children, node)
	return i + 1
}

// constructorHead reports whether the tokens between the modifiers and the
// name hold nothing but type parameters.
func (p *parser) constructorHead(j, nameIdx int) bool {
	if j == nameIdx {
		return true
	}
	if p.punct(j, "<") {
		return p.skipAngle(j, nameIdx+1) == nameIdx
	}
	return false
}

func (p *parser) statementEnd(i, to int) int {
	for i < to {
		if p.punct(i, ";") {
			return i
		}
		if p.punct(i, "(") || p.punct(i, "[") || p.punct(i, "{") {
			i = p.closing(i, to) + 1
			continue
		}
		i++
	}
	return to
}

// enclose records a member spanning tokens start..end when the code in
// from..to holds nested type declarations.
func (p *parser) enclose(parent *Node, start, end, from, to int) {
	node := &Node{Kind: KindMember, Start: p.toks[start].Start, End: p.endOf(end)}
	p.scan(node, from, to)
	if len(node.Children) > 0 {
		parent.Children = append(parent.Children, node)
	}
}
