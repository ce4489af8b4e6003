// Package scantoken models the opaque credentials printed on a work order's scan
// sheet. Each Token is bound to exactly one Binding: a work order, a step index
// and a transition Kind (start or end).
//
// Tokens are generated once, when the work order is created, and are never
// reused across work orders or steps: the Generator embeds the binding in the
// token and appends a random component. Registries still check for collisions
// when storing a new token.
package scantoken
