// Package allocator hands out fixed-width hexadecimal codes that do not
// collide with any sibling code in the same scope. Allocation is a pure
// function of the sibling set: the caller owns insertion and must hold its
// container lock across allocate-and-insert.
package allocator
