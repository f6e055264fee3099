package logging_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/omni/authority-bridge/logging"
)

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()

	require.Equal(t, logrus.StandardLogger(), logging.LoggerFromContext(context.Background()))

	logger := logging.New().WithField("ledger", "side")
	ctx := logging.WithLogger(context.Background(), logger)
	require.Equal(t, logger, logging.LoggerFromContext(ctx))
}
