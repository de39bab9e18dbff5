package ast

import "reflect"

// Walk traverses an AST in depth-first order. If node is nil, Walk returns immediately. If node is of type T and
// f(node) returns false, Walk returns immediately. Otherwise, Walk is called with f for each non-nil child of node.
// For more control over when node's children are traversed, call [WalkChildren] from f and return false.
func Walk[T Node](node Node, f func(T) bool) {
	if isNil(node) {
		return
	}
	if nodeT, ok := node.(T); ok && !f(nodeT) {
		return
	}
	WalkChildren(node, f)
}

// WalkChildren is like [Walk] except that f is only called for children of node.
func WalkChildren[T Node](node Node, f func(T) bool) {
	if isNil(node) {
		return
	}
	switch node := node.(type) {
	case *Program:
		walkSlice(node.Stmts, f)
	case *VarDecl:
		Walk(node.Initialiser, f)
	case *FunDecl:
		Walk(node.Function, f)
	case *Function:
		walkSlice(node.Body, f)
	case *ClassDecl:
		Walk(node.Superclass, f)
		walkSlice(node.Methods, f)
	case *ExprStmt:
		Walk(node.Expr, f)
	case *PrintStmt:
		Walk(node.Expr, f)
	case *BlockStmt:
		walkSlice(node.Stmts, f)
	case *IfStmt:
		Walk(node.Condition, f)
		Walk(node.Then, f)
		Walk(node.Else, f)
	case *WhileStmt:
		Walk(node.Condition, f)
		Walk(node.Body, f)
	case *ReturnStmt:
		Walk(node.Value, f)
	case *LiteralExpr:
	case *GroupExpr:
		Walk(node.Expr, f)
	case *UnaryExpr:
		Walk(node.Right, f)
	case *BinaryExpr:
		Walk(node.Left, f)
		Walk(node.Right, f)
	case *LogicalExpr:
		Walk(node.Left, f)
		Walk(node.Right, f)
	case *VariableExpr:
	case *AssignExpr:
		Walk(node.Value, f)
	case *CallExpr:
		Walk(node.Callee, f)
		walkSlice(node.Args, f)
	case *GetExpr:
		Walk(node.Object, f)
	case *SetExpr:
		Walk(node.Object, f)
		Walk(node.Value, f)
	case *ThisExpr:
	case *SuperExpr:
	}
}

func walkSlice[sliceT, fT Node](nodes []sliceT, f func(fT) bool) {
	for _, node := range nodes {
		Walk(node, f)
	}
}

// Predicate is used by [Find] to determine whether a traversed [Node] should be returned.
type Predicate[T Node] func(T) bool

// Find traverses an AST in depth-first order, searching for a non-nil node for which the predicate p returns true. If
// one is found, then that node is returned along with true. Otherwise, the zero value of T and false are returned.
func Find[T Node](node Node, p Predicate[T]) (T, bool) {
	var result T
	var found bool
	Walk(node, func(n T) bool {
		if p(n) {
			result = n
			found = true
		}
		return !found
	})
	return result, found
}

// FindLast is like [Find] except it returns the last non-nil node that p returns true for instead of the first.
func FindLast[T Node](node Node, p Predicate[T]) (T, bool) {
	var result T
	var found bool
	Walk(node, func(n T) bool {
		if p(n) {
			result = n
			found = true
		}
		return true
	})
	return result, found
}

func isNil(node Node) bool {
	if node == nil {
		return true
	}
	v := reflect.ValueOf(node)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
