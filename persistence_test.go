package kerastuner

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveReloadRoundTrip(t *testing.T) {
	oracle := newTestOracle(t, nil)

	space, err := NewSpace(
		NewChoice("optimizer", "adam", "sgd"),
		NewRange[float64]("learning_rate", 0, 1),
	)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		trialID := fmt.Sprintf("trial-%d", i)

		resp, err := oracle.PopulateSpace(trialID, space)
		require.NoError(t, err)
		require.Equal(t, StatusRun, resp.Status)
		require.NoError(t, oracle.ReportResult(trialID, float64(i)))
	}

	var buf bytes.Buffer
	require.NoError(t, oracle.Save(&buf))

	restored, err := NewOracle(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, restored.Reload(&buf))

	status := restored.Status()
	assert.Equal(t, 2, status.Trials)
	assert.Equal(t, 2, status.Scored)

	// The restored configuration carries the saved seed and knobs.
	assert.Equal(t, oracle.Config(), restored.Config())

	// The tried-set survives: the configurations proposed before the save
	// are still known.
	assert.Equal(t, 2, restored.tried.size())

	// The restored search continues where the saved one stopped: with two
	// scored trials it goes model-guided on the next proposal.
	resp, err := restored.PopulateSpace("trial-2", space)
	require.NoError(t, err)
	require.Equal(t, StatusRun, resp.Status)
	assert.Equal(t, StateModelGuided, restored.Status().State)

	lr := resp.Values["learning_rate"].(float64)
	assert.GreaterOrEqual(t, lr, 0.0)
	assert.LessOrEqual(t, lr, 1.0)
}

func TestSaveFileReloadFile(t *testing.T) {
	oracle := newTestOracle(t, nil)

	space, err := NewSpace(NewRange[float64]("x", 0, 10))
	require.NoError(t, err)

	_, err = oracle.PopulateSpace("trial-0", space)
	require.NoError(t, err)
	require.NoError(t, oracle.ReportResult("trial-0", 1.5))

	path := filepath.Join(t.TempDir(), "oracle.json")
	require.NoError(t, oracle.SaveFile(path))

	restored, err := NewOracle(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, restored.ReloadFile(path))

	assert.Equal(t, 1, restored.Status().Scored)
}

func TestReloadRejectsUnknownVersion(t *testing.T) {
	oracle := newTestOracle(t, nil)

	err := oracle.Reload(strings.NewReader(`{"version": 99}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestReloadRejectsGarbage(t *testing.T) {
	oracle := newTestOracle(t, nil)

	require.Error(t, oracle.Reload(strings.NewReader("not json")))
}

func TestReloadedTrialsSurviveNumericNormalization(t *testing.T) {
	// JSON carries a single number type: integer configuration values come
	// back as float64. The training matrix must still build.
	oracle := newTestOracle(t, nil)

	space, err := NewSpace(
		NewChoice("units", 32, 64, 128),
		NewRange[int]("depth", 1, 8),
	)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		trialID := fmt.Sprintf("trial-%d", i)

		resp, err := oracle.PopulateSpace(trialID, space)
		require.NoError(t, err)
		require.Equal(t, StatusRun, resp.Status)
		require.NoError(t, oracle.ReportResult(trialID, float64(i)))
	}

	var buf bytes.Buffer
	require.NoError(t, oracle.Save(&buf))

	restored, err := NewOracle(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, restored.Reload(&buf))

	resp, err := restored.PopulateSpace("trial-2", space)
	require.NoError(t, err)
	require.Equal(t, StatusRun, resp.Status)

	assert.Contains(t, []any{32, 64, 128}, resp.Values["units"])

	depth := resp.Values["depth"].(int)
	assert.GreaterOrEqual(t, depth, 1)
	assert.LessOrEqual(t, depth, 8)
}
