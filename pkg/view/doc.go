// Package view holds the navigable state of the explorer and the pure
// projection that derives what the three dependency panes show.
//
// # State
//
// [State] is the whole mutable model: the nodes currently listed (sorted
// by ID), whether assembly nodes are listed, and which list entry is
// selected. It changes only through [State.SelectIndex] and
// [State.ToggleAssemblies].
//
// # Projection
//
// [Project] computes, for the selected node, its runtime dependencies
// (outgoing edges to assemblies), its package dependencies (outgoing edges
// to packages, with the wanted version) and its reverse dependencies
// (incoming edges of any kind). Results are recomputed after every state
// change and never cached.
//
// # Dispatch
//
// [Dispatcher] maps input events to state transitions. Each transition
// reports what has to be redrawn, so the terminal layer holds no logic of
// its own and every transition can be tested without a terminal.
package view
