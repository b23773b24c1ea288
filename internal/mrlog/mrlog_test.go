package mrlog_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mrsg/internal/mrlog"
)

func TestNewFallsBackToInfoOnUnrecognizedLevel(t *testing.T) {
	log, err := mrlog.New("not-a-level")
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewAcceptsKnownLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		log, err := mrlog.New(lvl)
		require.NoError(t, err)
		require.NotNil(t, log)
	}
}

func TestForActorTagsActorAndWorkerID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core).Sugar()

	derived := mrlog.ForActor(base, "worker", 3)
	require.NotNil(t, derived)
	require.NotSame(t, base, derived)

	derived.Info("tagged")
	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "worker", fields["actor"])
	require.Equal(t, int64(3), fields["wid"])
}
