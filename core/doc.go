// Package core defines the shared domain types of flowgraph: the mutable
// execution state bag threaded through a run, the run record tracking one
// execution's lifecycle, the log sink capability that serves both batch and
// streaming consumers, the store abstractions for graphs and runs, and the
// execution-time error taxonomy.
//
// Higher layers (graph, engine, runner, server) depend on core; core depends
// on nothing but the standard library. Keeping the domain types here avoids
// import cycles between the traversal logic and the stores it is injected
// with.
package core
