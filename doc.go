// Package pph is the composition root of the Personal Productivity Hub.
//
// It wires the storage adapters (Persistence Layer) to the hub (Interaction
// Layer) using functional options.
//
// Features:
//
//   - **Four panels**: to-dos, notes, links and images, each a JSON array under one key.
//   - **Preferences**: theme, active tab and avatar stored as plain strings.
//   - **Safe rendering**: panels are produced by html/template, so user text is always escaped.
//   - **Adapters**: filesystem (default), SQLite and in-memory storage via `core.Storage`.
//   - **Live updates**: the filesystem adapter watches for changes made by other processes.
//
// Usage:
//
//	h, err := pph.New("./data",
//		pph.WithAdapter(pph.AdapterFS),
//		pph.WithLogger(logger),
//	)
//
//	err = h.AddTodo(ctx, "Buy milk")
package pph
