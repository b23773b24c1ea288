package dfs

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOwnershipLog writes a human-readable per-worker placement dump:
// one line per worker with a bitmap over chunks and the owned count.
// Grounded on distribute_data's chunks.log trace, reproduced as a
// helper any caller can point at an open file or buffer.
func (p *Placement) WriteOwnershipLog(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for wid := 0; wid < p.workers; wid++ {
		count := 0
		fmt.Fprintf(bw, "worker %06d | ", wid)
		for cid := 0; cid < p.chunks; cid++ {
			if p.matrix[cid][wid] {
				fmt.Fprint(bw, "1")
				count++
			} else {
				fmt.Fprint(bw, "0")
			}
		}
		fmt.Fprintf(bw, " | chunks owned: %d\n", count)
	}
	return bw.Flush()
}
