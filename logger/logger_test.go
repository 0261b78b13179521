package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_BuildsForBothEnvironments(t *testing.T) {
	require.NoError(t, Init("development"))
	require.NoError(t, Init("production"))
	Set(zap.NewNop())
}

func TestSet_RoutesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	defer Set(zap.NewNop())

	Info("withdrawal approved", "id", 7, "coin", 200)
	Errorf("[database] ping failed: %s", "boom")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "withdrawal approved", entries[0].Message)
	assert.Equal(t, int64(7), entries[0].ContextMap()["id"])
	assert.Equal(t, "[database] ping failed: boom", entries[1].Message)
}
