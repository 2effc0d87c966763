// Package override selects the override entries of a layer that apply to a
// file.
//
// Every matching entry applies, in declaration order. Within one entry the
// patterns are evaluated sequentially, so a later negated pattern removes a
// path selected by an earlier positive pattern of the same entry. An entry
// may also carry a CEL condition (see [expr]) that must hold for it to apply.
package override
