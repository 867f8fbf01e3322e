package matching

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRulesFromFile_OverlaysDefaults(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
min_score: 50
goals:
  Balance:
    categories: [balance]
    keywords: [single leg]
    bonus: 20
injuries:
  knee:
    avoid: [pistol]
    safe: [pool]
    bonus: 5
`)

	r, err := LoadRulesFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 50, r.MinScore)
	assert.Equal(t, 5, r.Limit)
	assert.Equal(t, 15, r.KeywordBonus)
	assert.Contains(t, r.Goals, "balance")
	assert.Contains(t, r.Goals, "strength")
	assert.Equal(t, []string{"pistol"}, r.Injuries["knee"].Avoid)
	assert.Equal(t, DefaultRules().Instructions, r.Instructions)
}

func TestLoadRulesFromFile_AcceptsJSON(t *testing.T) {
	path := writeFile(t, "rules.json", `{"limit": 3, "keyword_bonus": 10}`)

	r, err := LoadRulesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Limit)
	assert.Equal(t, 10, r.KeywordBonus)
}

func TestLoadRulesFromFile_FallsBackToDefaults(t *testing.T) {
	r, err := LoadRulesFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, DefaultRules(), r)

	bad := writeFile(t, "bad.yaml", "goals: [not, a, map")
	r, err = LoadRulesFromFile(bad)
	require.Error(t, err)
	assert.Equal(t, DefaultRules(), r)
}

func TestLoadRulesFromFile_RepoConfig(t *testing.T) {
	r, err := LoadRulesFromFile("../../configs/rules.yaml")
	require.NoError(t, err)
	assert.Contains(t, r.Goals, "mobility")
	assert.Contains(t, r.Injuries, "hip")
	assert.Contains(t, r.Injuries, "knee")
}

func TestRules_YAMLRoundTrip(t *testing.T) {
	b, err := DefaultRules().YAML()
	require.NoError(t, err)

	var back Rules
	require.NoError(t, yaml.Unmarshal(b, &back))
	assert.Equal(t, DefaultRules(), back)
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" Weight Loss", "weight-loss", "", "CORE", "core"})
	assert.Equal(t, []string{"weight_loss", "core"}, got)
}

func TestLoadRulesFromFile_ExplicitZeroOverrides(t *testing.T) {
	path := writeFile(t, "rules.yaml", "min_score: 0\navoid_penalty: 0\n")

	r, err := LoadRulesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, r.MinScore)
	assert.Equal(t, 0, r.AvoidPenalty)
	assert.Equal(t, 15, r.KeywordBonus)

	// with no penalty a knee-unfriendly squat keeps its goal score
	e := NewEngine(r)
	target := domain.Exercise{ID: 100, Name: "Leg Extension", Category: "strength", TargetMuscles: []string{"quads"}}
	squat := domain.Exercise{ID: 1, Name: "Goblet Squat", Category: "strength", TargetMuscles: []string{"quads"}}
	score, _ := e.scoreOne(target, squat, normalizeTags([]string{"strength"}), normalizeTags([]string{"knee"}))
	assert.Equal(t, 65, score)

	recs := e.Recommend(target, []domain.Exercise{{ID: 2, Name: "Plain", Category: "misc"}}, nil, nil)
	require.Len(t, recs, 1)
	assert.Equal(t, 0, recs[0].MatchScore)
}

func TestLoadRulesFromFile_RejectsInvalidNumbers(t *testing.T) {
	for _, body := range []string{"limit: 0\n", "min_score: -5\n", "keyword_bonus: -1\n"} {
		r, err := LoadRulesFromFile(writeFile(t, "rules.yaml", body))
		assert.Error(t, err, body)
		assert.Equal(t, DefaultRules(), r, body)
	}
}
