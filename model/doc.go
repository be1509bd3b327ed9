// Package model contains the registry tree: a Wrapper owns Databases and
// every Database owns Registries. Each level allocates codes for its
// children through the allocator service while holding its own lock, so
// sibling codes and labels stay unique after every mutation.
//
// Codes compose hierarchically. A Database code has no prefix; a Registry
// full code is its Database code followed by the Registry code:
//
//	w := model.NewWrapper()
//	db, _ := w.CreateDatabase("Items", "inventory")   // db.Code() == "01"
//	sword, _ := db.CreateRegistry("Sword", "Weapons") // sword.Code() == "00a1"
//	_ = sword.FullCode()                               // "0100a1"
package model
