// Package climate defines the per-period record shared by every stage of the
// climate model pipeline.
//
// A [Record] is created by the series assembler with its concentration and
// recorded anomaly, and later receives modeled values from the recurrence
// engine:
//
//   - [Period]: a year, or a (year, month) pair when [Period.HasMonth] is true
//   - [Record]: concentration plus optional recorded and modeled temperatures
//   - [Window]: a contiguous section of a record list starting at a period
//   - [Extract] / [Compare]: parallel vectors for presentation
//
// # Ownership
//
// Record lists are owned by whichever stage currently writes to them:
// assembly, then replay or extrapolation, then reporting. Stages never
// reorder or delete entries. Lists are not safe for concurrent mutation.
package climate
