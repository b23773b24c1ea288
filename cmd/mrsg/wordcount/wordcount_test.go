package wordcount

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mrsg/internal/jobstate"
)

func TestTaskCostFSplitsMapAndReduceCost(t *testing.T) {
	p := Params{
		ChunkSizeBytes:   1024,
		FlopsPerByte:     2,
		ReduceFlopsPerKV: 4,
		KeysPerByte:      0.5,
		NumberOfMaps:     4,
		NumberOfReduces:  2,
	}
	costF := TaskCostF(p)

	mapCost := costF(jobstate.Map, 0, 0)
	require.Equal(t, p.FlopsPerByte*p.ChunkSizeBytes, mapCost)

	wantReduce := p.FlopsPerByte * p.ChunkSizeBytes * p.KeysPerByte * p.ReduceFlopsPerKV / float64(p.NumberOfReduces)
	reduceCost := costF(jobstate.Reduce, 0, 0)
	require.Equal(t, wantReduce, reduceCost)
}

func TestTaskCostFZeroReducesLeavesCostUnscaled(t *testing.T) {
	p := Params{
		ChunkSizeBytes:   1024,
		FlopsPerByte:     2,
		ReduceFlopsPerKV: 4,
		KeysPerByte:      0.5,
		NumberOfMaps:     4,
		NumberOfReduces:  0,
	}
	costF := TaskCostF(p)
	want := p.FlopsPerByte * p.ChunkSizeBytes * p.KeysPerByte * p.ReduceFlopsPerKV
	require.Equal(t, want, costF(jobstate.Reduce, 0, 0))
}

func TestMapOutputFDividesEvenlyAcrossReducers(t *testing.T) {
	p := Params{
		ChunkSizeBytes:  1000,
		KeysPerByte:     0.1,
		NumberOfReduces: 4,
	}
	outF := MapOutputF(p)

	want := uint64((p.ChunkSizeBytes * p.KeysPerByte * 24.0) / float64(p.NumberOfReduces))
	require.Equal(t, want, outF(0, 0))
	require.Equal(t, want, outF(3, 1))
}

func TestMapOutputFZeroReducesIsZero(t *testing.T) {
	p := Params{ChunkSizeBytes: 1000, KeysPerByte: 0.1, NumberOfReduces: 0}
	outF := MapOutputF(p)
	require.Equal(t, uint64(0), outF(0, 0))
}
