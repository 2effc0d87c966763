// Package compose folds an ordered sequence of layers into an
// [effective.Config].
//
// Layers are given weakest first. Each field has its own merge:
//
//   - rules: a later spec for a key replaces the earlier one, options included
//   - settings and parserOptions: top-level keys are replaced, except additive
//     lists (see [DefaultAdditiveSuffixes]) which are concatenated
//   - parser: the last non-empty value wins
//   - env: flags are OR'd, so an enabled flag can never be disabled
//   - plugins: union
//   - linterOptions: top-level keys are replaced
//
// After the fold, every plugin rule must name a plugin that some layer
// declared.
package compose
