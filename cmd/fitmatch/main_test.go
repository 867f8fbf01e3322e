package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
)

const (
	fixturePath = "../../data/exercises.json"
	rulesPath   = "../../configs/rules.yaml"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("DB_DSN", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--exercises", fixturePath, "--rules", rulesPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRecommendCommand_JSON(t *testing.T) {
	out, _, err := runCLI(t, "recommend", "1", "--goal", "flexibility", "--injury", "knee")
	require.NoError(t, err)

	var recs []domain.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &recs))

	got := make([]int, 0, len(recs))
	for _, r := range recs {
		got = append(got, r.ID)
	}
	assert.Equal(t, []int{16, 19, 3, 5, 7}, got)
	assert.Equal(t, 80, recs[0].MatchScore)
}

func TestRecommendCommand_Table(t *testing.T) {
	out, _, err := runCLI(t, "recommend", "1", "-g", "flexibility", "-i", "knee", "-o", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "Hip Mobility Flow")
	assert.Contains(t, out, "Instructions:")
	assert.Contains(t, out, "Limit knee bend to a pain-free range")
}

func TestRecommendCommand_NotFound(t *testing.T) {
	out, errOut, err := runCLI(t, "recommend", "999")
	require.NoError(t, err)

	assert.Equal(t, "[]", strings.TrimSpace(out))
	assert.Contains(t, errOut, "exercise 999 not found")
}

func TestRecommendCommand_InvalidID(t *testing.T) {
	_, _, err := runCLI(t, "recommend", "squat")
	assert.ErrorContains(t, err, `invalid exercise id "squat"`)
}

func TestExercisesCommand(t *testing.T) {
	out, _, err := runCLI(t, "exercises", "--category", "flexibility")
	require.NoError(t, err)

	var got struct {
		Total int               `json:"total"`
		Items []domain.Exercise `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Yoga Flow Stretch", got.Items[0].Name)
}

func TestRulesCommand_IncludesFileOverrides(t *testing.T) {
	out, _, err := runCLI(t, "rules")
	require.NoError(t, err)

	assert.Contains(t, out, "mobility:")
	assert.Contains(t, out, "hip:")
	assert.Contains(t, out, "knee:")
}

func TestRulesCommand_BrokenFileWarnsAndUsesDefaults(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("goals: [not, a, map"), 0o600))

	out, errOut, err := runCLI(t, "rules", "--rules", broken)
	require.NoError(t, err)

	assert.Contains(t, errOut, "use default rules")
	assert.Contains(t, out, "knee:")
	assert.NotContains(t, out, "hip:")
}

func TestSeedCommand(t *testing.T) {
	_, _, err := runCLI(t, "seed")
	assert.ErrorContains(t, err, "--dsn is required")

	dsn := filepath.Join(t.TempDir(), "fitmatch.db")
	out, _, err := runCLI(t, "seed", "--driver", "sqlite3", "--dsn", dsn)
	require.NoError(t, err)
	assert.Equal(t, "seeded 20 exercises (20 in catalog)\n", out)

	out, _, err = runCLI(t, "recommend", "1", "--goal", "flexibility", "--injury", "knee", "--driver", "sqlite3", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Hip Mobility Flow"`)
}
