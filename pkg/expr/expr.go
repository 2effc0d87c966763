package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// ErrNotBoolean is returned when a condition does not evaluate to a boolean.
var ErrNotBoolean = errors.New("expression did not return a boolean value")

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment].
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// NewConditionEnvironment creates an [Environment] declaring the variables
// available to override conditions.
func NewConditionEnvironment() (*Environment, error) {
	return NewEnvironment(
		cel.Variable("file", cel.StringType),
		cel.Variable("dir", cel.StringType),
	)
}

func createEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts, cel.Lib(&lib{}))

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

// Condition is a compiled boolean expression.
type Condition struct {
	program    cel.Program
	expression string
}

// CompileCondition compiles a boolean expression.
func (e *Environment) CompileCondition(expression string) (*Condition, error) {
	program, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}

	return &Condition{program: program, expression: expression}, nil
}

// Eval evaluates the condition with the given variables.
func (c *Condition) Eval(vars map[string]any) (bool, error) {
	result, _, err := c.program.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", c.expression, err)
	}

	ok, isBool := result.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("evaluate %q: %w", c.expression, ErrNotBoolean)
	}

	return ok, nil
}

func (c *Condition) String() string {
	return c.expression
}
