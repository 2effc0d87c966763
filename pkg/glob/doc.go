// Package glob tests file paths against glob patterns and ordered pattern
// sets.
//
// Patterns support `*`, `**`, `?`, character classes and brace lists such as
// `*.{ts,svelte}`. A leading `!` negates a pattern. Within one [PatternSet],
// patterns are evaluated in order, so a later negation can veto an earlier
// positive match.
package glob
