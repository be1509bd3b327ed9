// Package idregistry maintains named databases of labelled registries and
// allocates collision-free hexadecimal identifiers for them.
//
// Every registry code is scoped under its database code, so full codes
// (database code followed by registry code) are unique across the tree:
//
//	srv, _ := idregistry.New(ctx)
//	items, _ := srv.CreateDatabase(ctx, "Items", "inventory")
//	sword, _ := srv.CreateRegistry(ctx, items, "Sword", "Weapons")
//	path, _ := srv.Resolve(sword.FullCode()) // Items/Weapons/Sword
//
// The tree itself lives in package model and the allocation algorithm in
// service/allocator. The Service façade adds configuration, persistence
// through snapshot stores (memory, afs or SQLite), change events, path
// lookup, CSV export and OpenTelemetry tracing.
package idregistry
