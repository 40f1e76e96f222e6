// Package controls turns a WeCom approval template definition into a flat,
// addressable list of form controls.
//
// The template detail returned by the OA API is an arbitrarily nested tree.
// Flatten walks it depth-first and keeps every object that carries both an
// `id` and a `control` tag, in pre-order. ResolveOptions walks a selector
// control the same way to collect its choosable options, and Audit reports
// which required controls a submission leaves empty.
//
// Nothing in this package performs I/O; callers hand in a jsonv.Value
// obtained from the remote template query.
package controls
