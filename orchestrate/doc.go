// Package orchestrate runs the bounded multi-agent routing loop.
//
// A workspace query is answered by a routing agent that, each iteration,
// either replies directly or delegates an instruction to one member agent.
// The router speaks a strict JSON protocol; malformed output and the
// iteration ceiling terminate the loop with fixed informative replies
// rather than errors.
package orchestrate
