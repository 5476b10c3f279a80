package stdl

// TokenAt returns the token whose range contains the position, preferring
// content tokens over structural markers. The second result is false when
// nothing meaningful sits at the position.
func (r *ParseResult) TokenAt(pos Position) (Token, bool) {
	for _, tok := range r.Tokens {
		switch tok.Kind {
		case TokenBlockStart, TokenBlockEnd, TokenNewLine, TokenEndOfInput:
			continue
		}
		if tok.Range.Contains(pos) {
			return tok, true
		}
	}
	return Token{}, false
}

// stateAt returns the deepest state whose full range contains the position.
func (r *ParseResult) stateAt(pos Position) *StateNode {
	var found *StateNode
	var search func(states []*StateNode)
	search = func(states []*StateNode) {
		for _, state := range states {
			if !state.FullRange.Contains(pos) && !state.Range.Contains(pos) {
				continue
			}
			found = state
			search(state.SubStates)
		}
	}
	search(r.States)
	return found
}

// nameTable builds the duplicate-filtered qualified-name table for the
// forest. The table is a value owned by the caller; nothing is cached.
func (r *ParseResult) nameTable() map[string]*StateNode {
	byName := make(map[string]*StateNode)
	walkStates(r.States, func(node *StateNode) {
		qname := node.QualifiedName()
		if _, exists := byName[qname]; !exists {
			byName[qname] = node
		}
	})
	return byName
}

// Definition resolves the state name at the given position to the range of
// its declaration. It understands transition targets, Initial targets, and
// state declarations themselves, using the same scope resolution order as
// the validator.
func (r *ParseResult) Definition(pos Position) (Range, bool) {
	tok, ok := r.TokenAt(pos)
	if !ok {
		return Range{}, false
	}
	node := r.resolveTokenTarget(tok, pos)
	if node == nil {
		return Range{}, false
	}
	return node.Range, true
}

// References returns the declaration range plus every transition or Initial
// target that resolves to the state named at the position.
func (r *ParseResult) References(pos Position) []Range {
	tok, ok := r.TokenAt(pos)
	if !ok {
		return nil
	}
	target := r.resolveTokenTarget(tok, pos)
	if target == nil {
		return nil
	}

	byName := r.nameTable()
	qname := target.QualifiedName()
	refs := []Range{target.Range}

	walkStates(r.States, func(node *StateNode) {
		for _, h := range node.Handlers {
			if h.Transition == nil {
				continue
			}
			if resolved, ok := resolveTarget(node, h.Transition.Target, r.States, byName); ok && resolved == qname {
				refs = append(refs, h.Transition.Range)
			}
		}
		if node.HasInitial {
			if sub := node.FindSubState(node.InitialTarget); sub != nil && sub.QualifiedName() == qname {
				refs = append(refs, node.InitialRange)
			}
		}
	})
	return refs
}

// resolveTokenTarget maps a token back to the state it names, or nil.
func (r *ParseResult) resolveTokenTarget(tok Token, pos Position) *StateNode {
	byName := r.nameTable()
	switch tok.Kind {
	case TokenStateDeclaration:
		if node, ok := byName[qualifiedNameOfDeclaration(r, tok, pos)]; ok {
			return node
		}
	case TokenTransition:
		source := r.stateAt(tok.Range.Start)
		if source == nil {
			return nil
		}
		// An Initial target resolves strictly among direct substates; an
		// event transition uses the general three-step order.
		if source.HasInitial && source.InitialRange == tok.Range {
			return source.FindSubState(tok.Text)
		}
		if resolved, ok := resolveTarget(source, tok.Text, r.States, byName); ok {
			return byName[resolved]
		}
	}
	return nil
}

func qualifiedNameOfDeclaration(r *ParseResult, tok Token, pos Position) string {
	node := r.stateAt(pos)
	for node != nil {
		if node.Range == tok.Range {
			return node.QualifiedName()
		}
		node = node.Parent
	}
	return tok.Text
}
