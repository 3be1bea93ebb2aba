package commands

import (
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/josephlewis42/gogosh/core"
	"github.com/pkg/errors"
)

// ErrDivideByZero is returned when expr divides by zero.
var ErrDivideByZero = errors.New("division by zero")

type exprTree struct {
	Left  *exprTerm  `@@`
	Right []*exprSum `@@*`
}

type exprSum struct {
	Operator string    `@("+" | "-")`
	Term     *exprTerm `@@`
}

type exprTerm struct {
	Left  *exprFactor    `@@`
	Right []*exprProduct `@@*`
}

type exprProduct struct {
	Operator string      `@("*" | "/" | "%")`
	Factor   *exprFactor `@@`
}

type exprFactor struct {
	Number   *float64    `  @(Float | Int)`
	Negative *exprFactor `| "-" @@`
	Group    *exprTree   `| "(" @@ ")"`
}

var exprParser = participle.MustBuild[exprTree]()

func (e *exprTree) eval() (float64, error) {
	total, err := e.Left.eval()
	if err != nil {
		return 0, err
	}
	for _, op := range e.Right {
		v, err := op.Term.eval()
		if err != nil {
			return 0, err
		}
		switch op.Operator {
		case "+":
			total += v
		case "-":
			total -= v
		}
	}
	return total, nil
}

func (t *exprTerm) eval() (float64, error) {
	total, err := t.Left.eval()
	if err != nil {
		return 0, err
	}
	for _, op := range t.Right {
		v, err := op.Factor.eval()
		if err != nil {
			return 0, err
		}
		switch op.Operator {
		case "*":
			total *= v
		case "/":
			if v == 0 {
				return 0, ErrDivideByZero
			}
			total /= v
		case "%":
			if v == 0 {
				return 0, ErrDivideByZero
			}
			total = math.Mod(total, v)
		}
	}
	return total, nil
}

func (f *exprFactor) eval() (float64, error) {
	switch {
	case f.Number != nil:
		return *f.Number, nil
	case f.Negative != nil:
		v, err := f.Negative.eval()
		return -v, err
	default:
		return f.Group.eval()
	}
}

// EvalArithmetic evaluates an expression of numbers, + - * / % and
// parentheses.
func EvalArithmetic(source string) (float64, error) {
	tree, err := exprParser.ParseString("expr", source)
	if err != nil {
		return 0, err
	}
	return tree.eval()
}

// Expr evaluates its arguments as an arithmetic expression.
func Expr(p *core.Process, args []core.Value) (core.Value, error) {
	if len(args) == 0 {
		return core.Null, errors.New("usage: expr EXPRESSION")
	}

	v, err := EvalArithmetic(strings.Join(TextArgs(args), " "))
	if err != nil {
		return core.Null, errors.Wrap(err, "expr")
	}
	return core.Text(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

func init() {
	addBuiltin("expr", "Evaluate an arithmetic expression.", Expr)
}
