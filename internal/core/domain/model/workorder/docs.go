// Package workorder provides the WorkOrder aggregate and its process instances:
// the per-step state machine driven by scans.
//
// The package includes:
//   - WorkOrder: the aggregate root holding the ordered instances and the
//     index of the step that may currently move
//   - ProcessInstance: the execution record of one step
//   - Status: the instance state machine, also used as aggregate status
//   - Transition: the result of an accepted scan
//   - TransitionError: a rejected scan with the state that caused it
//
// Key business rules:
//   - steps advance strictly in order; only the current step accepts scans
//   - a step is started once and ended once, and only after it was started
//   - ending a step advances the current step index; ending the last one
//     completes the work order
//   - blocked steps refuse scans until they are unblocked
package workorder
