// Package approval assembles applyevent payloads and drives the two remote
// workflows built on top of them: cursor-paginated listing and the linked
// two-phase submission of a primary and a dependent form.
package approval
