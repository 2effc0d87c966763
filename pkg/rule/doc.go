// Package rule defines rule severities, rule specifications and namespaced
// rule keys.
//
// A rule is configured either with a bare severity (`off`, `warn`, `error`,
// or `0`, `1`, `2`) or with a list whose first element is the severity and
// whose remaining elements are rule options.
package rule
