package skn

import (
	"fmt"

	"eternity-assets/internal/eternity"
)

const fragmentCount = 5

// fragmentOrders maps, per fragments_order value, each physical fragment
// position to the logical fragment stored there.
var fragmentOrders = [...][fragmentCount]int{
	{2, 0, 4, 1, 3},
	{4, 3, 0, 2, 1},
	{1, 4, 3, 0, 2},
	{3, 2, 1, 4, 0},
	{0, 3, 1, 4, 2},
}

func permutation(order int32) ([fragmentCount]int, error) {
	if order < 0 || int(order) >= len(fragmentOrders) {
		return [fragmentCount]int{}, fmt.Errorf("%w: %d", eternity.ErrMalformedFragmentOrder, order)
	}
	return fragmentOrders[order], nil
}

// fragmentSpan returns the logical byte range of fragment i. Fragments are
// size/5 bytes; the last one absorbs the remainder.
func fragmentSpan(size, i int) (int, int) {
	n := size / fragmentCount
	if i == fragmentCount-1 {
		return i * n, size
	}
	return i * n, (i + 1) * n
}

// Reassemble turns a stored body back into the logical material stream.
func Reassemble(stored []byte, order int32) ([]byte, error) {
	perm, err := permutation(order)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(stored))
	off := 0
	for _, logical := range perm {
		lo, hi := fragmentSpan(len(stored), logical)
		off += copy(out[lo:hi], stored[off:off+hi-lo])
	}
	return out, nil
}

// Fragment is the inverse of Reassemble: it lays the logical stream out in
// storage order.
func Fragment(body []byte, order int32) ([]byte, error) {
	perm, err := permutation(order)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body))
	for _, logical := range perm {
		lo, hi := fragmentSpan(len(body), logical)
		out = append(out, body[lo:hi]...)
	}
	return out, nil
}
