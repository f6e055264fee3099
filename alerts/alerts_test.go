package alerts

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/omni/authority-bridge/config"
	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/repository/memory"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestConvertToAlertMetricValues(t *testing.T) {
	t.Parallel()

	values, err := ConvertToAlertMetricValues([]StuckSignature{
		{Age: 120, MsgHash: common.HexToHash("0x01"), Count: 1},
	})
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, 120.0, values[0].Value())
	require.Equal(t, prometheus.Labels{
		"msg_hash": common.HexToHash("0x01").Hex(),
		"count":    "1",
	}, values[0].Labels())
}

func TestJob_RunOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	repo := store.Repo()
	require.NoError(t, repo.ConfirmedMessages.Ensure(ctx, &entity.ConfirmedMessage{
		MessageID:        common.HexToHash("0x01"),
		Sender:           common.HexToAddress("0x02"),
		Recipient:        common.HexToAddress("0x03"),
		NumConfirmations: 1,
	}))
	require.NoError(t, repo.ConfirmedMessages.Ensure(ctx, &entity.ConfirmedMessage{
		MessageID:        common.HexToHash("0x04"),
		NumConfirmations: 2,
		Executed:         true,
	}))

	provider := NewAlertsProvider(repo)
	provider.now = func() time.Time { return time.Now().Add(time.Hour) }
	metric := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "test_stuck_confirmation"}, []string{"message_id", "sender", "recipient", "count"})
	job := &Job{
		logger:  newTestLogger(),
		Metric:  metric,
		Timeout: time.Second,
		Func:    provider.FindStuckConfirmations,
		Params:  &AlertJobParams{MinAge: 10 * time.Minute},
	}

	job.RunOnce(ctx)
	require.Equal(t, 1, testutil.CollectAndCount(metric))
	value := testutil.ToFloat64(metric.WithLabelValues(
		common.HexToHash("0x01").Hex(),
		common.HexToAddress("0x02").Hex(),
		common.HexToAddress("0x03").Hex(),
		"1",
	))
	require.InDelta(t, time.Hour.Seconds(), value, 5)

	job.Params.MinAge = 2 * time.Hour
	job.RunOnce(ctx)
	require.Equal(t, 0, testutil.CollectAndCount(metric))
}

func TestFindStuckSignatures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewStore().Repo()
	require.NoError(t, repo.SignedMessages.Ensure(ctx, &entity.SignedMessage{
		MsgHash:       common.HexToHash("0x01"),
		NumSignatures: 1,
	}))
	require.NoError(t, repo.SignedMessages.Ensure(ctx, &entity.SignedMessage{
		MsgHash:       common.HexToHash("0x02"),
		NumSignatures: 2,
		Finalized:     true,
	}))

	provider := NewAlertsProvider(repo)
	provider.now = func() time.Time { return time.Now().Add(time.Hour) }
	res, err := provider.FindStuckSignatures(ctx, &AlertJobParams{MinAge: time.Minute})
	require.NoError(t, err)
	stuck := res.([]StuckSignature)
	require.Len(t, stuck, 1)
	require.Equal(t, common.HexToHash("0x01"), stuck[0].MsgHash)
	require.Equal(t, uint(1), stuck[0].Count)
}

func TestNewAlertManager(t *testing.T) {
	t.Parallel()

	repo := memory.NewStore().Repo()
	m, err := NewAlertManager(newTestLogger(), repo, map[string]*config.AlertConfig{
		StuckConfirmationAlert: {Interval: time.Minute, MinAge: time.Minute},
		StuckSignatureAlert:    {Interval: time.Minute, MinAge: time.Minute},
	})
	require.NoError(t, err)
	require.Len(t, m.jobs, 2)
	require.Equal(t, time.Minute, m.jobs[StuckSignatureAlert].Params.MinAge)

	_, err = NewAlertManager(newTestLogger(), repo, map[string]*config.AlertConfig{
		"unknown": {},
	})
	require.Error(t, err)
}
