package retcc

// Program is the root of a parsed translation unit. The mandatory
// int main() { ... } skeleton carries no information of its own, so only the
// return expression is kept.
type Program struct {
	Filename string
	Body     Expr
}

// Expr is one of LiteralExpr, BinaryExpr or UnaryExpr. The set is closed:
// code generation switches exhaustively over it.
type Expr interface{}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
)

// BinaryExpr owns both operands exclusively; the tree is strict, no node is
// shared between parents.
type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

type UnaryOp string

const (
	UnaryNegative UnaryOp = "-"
)

type UnaryExpr struct {
	Operation UnaryOp
	Operand   Expr
}

type LiteralExpr struct {
	Value int64
}
