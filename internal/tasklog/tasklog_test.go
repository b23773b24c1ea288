package tasklog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mrsg/internal/jobstate"
	"mrsg/internal/tasklog"
)

func TestWriterEmitsHeaderAndRows(t *testing.T) {
	var buf strings.Builder
	w, err := tasklog.New(&buf)
	require.NoError(t, err)

	require.NoError(t, w.Start(jobstate.Map, 0, 0, 2, 1.5))
	require.NoError(t, w.End(jobstate.Map, 0, 0, 2, 3.25, 0))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "task_id,phase,worker_id,time,action,shuffle_end", lines[0])
	require.Contains(t, lines[1], "START")
	require.Contains(t, lines[1], "MAP")
	require.Contains(t, lines[2], "END")
}
