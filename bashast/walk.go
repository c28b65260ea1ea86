package bashast

// Walk visits node and every descendant in left-to-right source order,
// calling visit on each. If visit returns false, Walk stops descending into
// that node's children (but still returns to sibling traversal above it).
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch v := n.(type) {
	case SimpleCommand:
		// leaf: no child nodes (redirects are not standalone nodes)
	case Pipeline:
		for _, c := range v.Commands {
			Walk(c, visit)
		}
	case AndList:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
	case OrList:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
	case Sequence:
		for _, c := range v.Commands {
			Walk(c, visit)
		}
	case Subshell:
		Walk(v.Command, visit)
	case CommandGroup:
		Walk(v.Command, visit)
	case Background:
		Walk(v.Command, visit)
	case ProcessSubstitution:
		Walk(v.Command, visit)
	}
}
