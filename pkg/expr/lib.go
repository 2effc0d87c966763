package expr

import (
	"path"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/macropower/lintcfg/pkg/glob"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `pathBase` returns the last element of the path.
		// Example: pathBase(file) in ["App.svelte", "main.ts"].
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					pathValue, ok := p.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathBase: invalid string value")
					}

					return types.String(path.Base(pathValue))
				}),
			),
		),

		// `pathDir` returns all but the last element of the path.
		// Example: pathDir(file).startsWith("src/legacy").
		cel.Function("pathDir",
			cel.Overload("path_dir", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					pathValue, ok := p.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathDir: invalid string value")
					}

					return types.String(path.Dir(pathValue))
				}),
			),
		),

		// `pathExt` returns the file extension of the path.
		// Example: pathExt(file) in [".ts", ".tsx"].
		cel.Function("pathExt",
			cel.Overload("path_ext", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					pathValue, ok := p.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathExt: invalid string value")
					}

					return types.String(path.Ext(pathValue))
				}),
			),
		),

		// `pathMatch` reports whether the path matches a glob pattern.
		// Example: !pathMatch("**/*.spec.ts", file).
		cel.Function("pathMatch",
			cel.Overload("path_match", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(pattern, p ref.Val) ref.Val {
					patternValue, ok := pattern.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathMatch: invalid pattern value")
					}

					pathValue, ok := p.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathMatch: invalid string value")
					}

					matched, err := glob.DefaultMatcher.Test(patternValue, pathValue)
					if err != nil {
						return types.NewErr("pathMatch: %v", err)
					}

					return types.Bool(matched)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}
