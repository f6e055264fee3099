package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omni/authority-bridge/db"
)

func TestIgnoreErrNotFound(t *testing.T) {
	t.Parallel()

	require.NoError(t, db.IgnoreErrNotFound(nil))
	require.NoError(t, db.IgnoreErrNotFound(fmt.Errorf("can't get proxy: %w", db.ErrNotFound)))

	other := errors.New("connection refused")
	require.Equal(t, other, db.IgnoreErrNotFound(other))
	require.True(t, db.IsNotFound(fmt.Errorf("wrapped: %w", db.ErrNotFound)))
	require.False(t, db.IsNotFound(other))
}
