package ast

// chunkSize is the number of elements per slab. Chosen so one function's
// or one small file's worth of nodes of a given kind usually fits in the
// first chunk.
const chunkSize = 256

// typedArena bump-allocates values of one concrete node type from fixed
// capacity chunks. A chunk, once allocated, is never resized or moved, so
// pointers returned by New remain valid for the arena's lifetime — unlike
// a plain growing slice, where append can reallocate and invalidate every
// pointer taken into it.
type typedArena[T any] struct {
	chunks [][]T
	cur    int // index into the current chunk's next free slot
}

func (a *typedArena[T]) new() *T {
	if len(a.chunks) == 0 || a.cur == cap(a.chunks[len(a.chunks)-1]) {
		a.chunks = append(a.chunks, make([]T, 0, chunkSize))
		a.cur = 0
	}
	chunk := &a.chunks[len(a.chunks)-1]
	*chunk = (*chunk)[:a.cur+1]
	a.cur++
	return &(*chunk)[len(*chunk)-1]
}

// Len reports how many values have been allocated so far, across all
// chunks.
func (a *typedArena[T]) Len() int {
	if len(a.chunks) == 0 {
		return 0
	}
	total := 0
	for _, c := range a.chunks[:len(a.chunks)-1] {
		total += cap(c)
	}
	return total + a.cur
}
