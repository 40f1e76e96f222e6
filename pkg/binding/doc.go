// Package binding maps business inputs onto flattened template controls.
//
// Each form profile is an ordered table of rules. A control is bound to the
// first rule whose title keywords and accepted kinds both match, and the
// rule's encoder produces the wire value WeCom expects for that control kind.
package binding
