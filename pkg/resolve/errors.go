package resolve

import "fmt"

// UnknownPluginError is returned in strict mode when a declared plugin does
// not exist in the registry.
type UnknownPluginError struct {
	Err    error
	Plugin string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown plugin %q: %v", e.Plugin, e.Err)
}

func (e *UnknownPluginError) Unwrap() error {
	return e.Err
}

// UnknownRuleError is returned in strict mode when a rule is not exported by
// its plugin.
type UnknownRuleError struct {
	Rule   string
	Plugin string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("rule %q is not defined by plugin %q", e.Rule, e.Plugin)
}
