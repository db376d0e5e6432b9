// Package skill defines the agent-callable tool surface (spec.md §6.4): a
// flat-parameter Skill interface, a Services container threading the core
// subsystems (C1-C10) into skill factories, and a Registry exposing
// OpenAI-function-calling-shaped definitions, grounded in the duck-typed
// name/description/parameters/execute contract of
// original_source/nexus3/skill/base.py and registry.py.
package skill

import "github.com/google/uuid"

// Result is the uniform outcome every skill returns (spec.md §6.4:
// "Result { output?, error?, success }"). Output and Error are mutually
// exclusive. CallID correlates a single skill invocation across logs.
type Result struct {
	Output  string
	Error   string
	Success bool
	CallID  string
}

// OK builds a successful Result carrying output.
func OK(output string) Result {
	return Result{Output: output, Success: true, CallID: uuid.NewString()}
}

// Fail builds a failed Result carrying a human-readable message.
func Fail(msg string) Result {
	return Result{Error: msg, Success: false, CallID: uuid.NewString()}
}

// FailErr builds a failed Result from a Go error.
func FailErr(err error) Result {
	return Fail(err.Error())
}
