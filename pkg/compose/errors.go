package compose

import "fmt"

// UndeclaredPluginRuleError is returned when a rule belongs to a plugin that
// no layer declares.
type UndeclaredPluginRuleError struct {
	Rule   string
	Plugin string
	// Layer is the id of the layer that configured the rule.
	Layer string
}

func (e *UndeclaredPluginRuleError) Error() string {
	return fmt.Sprintf("%s: rule %q: plugin %q is not declared", e.Layer, e.Rule, e.Plugin)
}
