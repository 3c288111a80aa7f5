package olink

// forEachNode visits root and every node beneath it in top-down order,
// handing each visit the node's parent (nil for the root).
func forEachNode(root Node, parent Node, visit func(parent, node Node)) {
	if root == nil {
		return
	}
	visit(parent, root)
	for _, child := range childrenOf(root) {
		forEachNode(child, root, visit)
	}
}

func childrenOf(n Node) []Node {
	var children []Node
	push := func(nodes ...Node) {
		for _, node := range nodes {
			if node != nil {
				children = append(children, node)
			}
		}
	}
	switch node := n.(type) {
	case *Environment:
		push(node.Members...)
	case *Package:
		for _, imp := range node.Imports {
			push(imp)
		}
		push(node.Members...)
	case *Class:
		for _, ref := range node.Supertypes {
			push(ref)
		}
		push(node.Members...)
	case *Mixin:
		for _, ref := range node.Supertypes {
			push(ref)
		}
		push(node.Members...)
	case *Singleton:
		for _, ref := range node.Supertypes {
			push(ref)
		}
		push(node.Members...)
	case *Program:
		push(node.Body...)
	case *Test:
		push(node.Body...)
	case *Method:
		for _, param := range node.Parameters {
			push(param)
		}
		push(node.Body...)
	case *Field:
		push(node.Value)
	case *Variable:
		push(node.Value)
	case *Import:
		push(node.Ref)
	case *Send:
		push(node.Receiver)
		push(node.Args...)
	case *Parameter, *Reference, *Literal:
	}
	return children
}
