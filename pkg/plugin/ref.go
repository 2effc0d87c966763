package plugin

import (
	"fmt"
	"strings"
)

const (
	// CorePlugin is the name of the builtin plugin that holds core rules and
	// the "eslint:" presets.
	CorePlugin = "eslint"

	corePrefix   = CorePlugin + ":"
	pluginPrefix = "plugin:"

	pluginNamePrefix = "eslint-plugin"
	configNamePrefix = "eslint-config"
)

// RefKind identifies the form of a preset reference.
type RefKind int

const (
	// RefCore is a core preset, e.g. "eslint:recommended".
	RefCore RefKind = iota
	// RefPlugin is a plugin preset, e.g. "plugin:react/recommended".
	RefPlugin
	// RefShared is a shareable config, e.g. "standard".
	RefShared
)

// Ref is a parsed preset reference.
type Ref struct {
	// Plugin is the normalized plugin name for [RefCore] and [RefPlugin].
	Plugin string
	// Name is the config name within the plugin, or the normalized
	// shareable config name for [RefShared].
	Name string
	Kind RefKind
}

// ParseRef parses a preset reference.
func ParseRef(ref string) (Ref, error) {
	ref = strings.TrimSpace(ref)

	switch {
	case ref == "":
		return Ref{}, fmt.Errorf("%w: empty reference", ErrInvalidReference)

	case strings.HasPrefix(ref, corePrefix):
		name := strings.TrimPrefix(ref, corePrefix)
		if name == "" {
			return Ref{}, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
		}

		return Ref{Kind: RefCore, Plugin: CorePlugin, Name: name}, nil

	case strings.HasPrefix(ref, pluginPrefix):
		rest := strings.TrimPrefix(ref, pluginPrefix)

		idx := strings.LastIndex(rest, "/")
		if idx <= 0 || idx == len(rest)-1 {
			return Ref{}, fmt.Errorf("%w: %q: expected plugin:<plugin>/<config>", ErrInvalidReference, ref)
		}

		return Ref{
			Kind:   RefPlugin,
			Plugin: NormalizePluginName(rest[:idx]),
			Name:   rest[idx+1:],
		}, nil
	}

	return Ref{Kind: RefShared, Name: NormalizeConfigName(ref)}, nil
}

// ID returns the canonical identity of the referenced preset.
func (r Ref) ID() string {
	switch r.Kind {
	case RefCore:
		return corePrefix + r.Name
	case RefPlugin:
		return pluginPrefix + r.Plugin + "/" + r.Name
	default:
		return r.Name
	}
}

func (r Ref) String() string {
	return r.ID()
}

// NormalizePluginName returns the short name of a plugin:
//
//	eslint-plugin-react       -> react
//	@scope/eslint-plugin      -> @scope
//	@scope/eslint-plugin-foo  -> @scope/foo
func NormalizePluginName(name string) string {
	return normalizeName(name, pluginNamePrefix, false)
}

// NormalizeConfigName returns the full package name of a shareable config:
//
//	standard        -> eslint-config-standard
//	@scope          -> @scope/eslint-config
//	@scope/foo      -> @scope/eslint-config-foo
func NormalizeConfigName(name string) string {
	return normalizeName(name, configNamePrefix, true)
}

func normalizeName(name, prefix string, long bool) string {
	name = strings.TrimSpace(name)

	if strings.HasPrefix(name, "@") {
		scope, rest, found := strings.Cut(name, "/")

		switch {
		case !found || rest == prefix:
			if long {
				return scope + "/" + prefix
			}

			return scope

		case long && !strings.HasPrefix(rest, prefix+"-"):
			return scope + "/" + prefix + "-" + rest

		case !long:
			return scope + "/" + strings.TrimPrefix(rest, prefix+"-")
		}

		return name
	}

	if long {
		if strings.HasPrefix(name, prefix+"-") {
			return name
		}

		return prefix + "-" + name
	}

	return strings.TrimPrefix(name, prefix+"-")
}
