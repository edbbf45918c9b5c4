// Package graph implements a small typed state graph for sequential agent
// workflows. A graph is built from named nodes connected by static or
// conditional edges, compiled into a Runnable, and invoked with an initial
// state that each node updates in turn until the graph reaches END.
//
// The engine deliberately runs one node at a time. Agent pipelines built on
// it stay easy to reason about: partial results accumulate in a stable
// order and every failure is attributable to a single named node.
package graph
