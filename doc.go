// Package hpastar provides generic A* search over navigation graphs that are
// rebuilt while queries run, and a two-level router built on top of it.
//
// It exposes these entry points:
//
//   - Search: run A* to completion over any Graph and get a Result.
//   - Stepper: iterate the same search one expansion at a time for debugging tools.
//   - Bake: derive a sparse waypoint graph, keeping one edge per group and node.
//   - Splice: join arbitrary start and end points to a private copy of a baked graph.
//   - Host: own a baked graph, republish it with Rebake and answer FindPath queries.
//   - Router: search a coarse region graph, then each traversed region locally.
//
// Every graph carries a Gate. Searches hold its read ticket and rebakes its
// write ticket, so a query never observes a half-built graph. The gate
// favors readers; see Gate for the consequences.
package hpastar
