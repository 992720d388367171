package ast

type Statement interface {
	isStatement()
}

type AssignStmt struct {
	Name string
	Expr Expr
}

func (AssignStmt) isStatement() {}

// FuncDefStmt declares a single-expression function. Body is evaluated per call.
type FuncDefStmt struct {
	Name   string
	Params []string
	Body   Expr
}

func (FuncDefStmt) isStatement() {}

type IfStmt struct {
	Cond   Expr
	Action Statement
}

func (IfStmt) isStatement() {}

type ButtonStmt struct {
	Name   string
	Label  string
	Action Expr
}

func (ButtonStmt) isStatement() {}

type ExprStmt struct {
	Expr Expr
}

func (ExprStmt) isStatement() {}

type Expr interface {
	isExpr()
}

type IntLit struct {
	Value int64
}

func (IntLit) isExpr() {}

type FloatLit struct {
	Value float64
}

func (FloatLit) isExpr() {}

type StringLit struct {
	Value string
}

func (StringLit) isExpr() {}

type BoolLit struct {
	Value bool
}

func (BoolLit) isExpr() {}

type NoneLit struct{}

func (NoneLit) isExpr() {}

type Ident struct {
	Name string
}

func (Ident) isExpr() {}

type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (UnaryExpr) isExpr() {}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}

type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}
