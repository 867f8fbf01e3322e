package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
)

// Reason types attached to domain.ScoreReason.
const (
	ReasonGoalCategory    = "goal_category"
	ReasonGoalKeyword     = "goal_keyword"
	ReasonInjurySafe      = "injury_safe"
	ReasonInjuryLowImpact = "injury_low_impact"
	ReasonSharedMuscles   = "shared_muscles"
)

const fallbackReason = "Alternative exercise from the catalog"

type Engine struct {
	rules Rules
}

func NewEngine(r Rules) *Engine {
	return &Engine{rules: r}
}

// Recommend scores every catalog entry except target against the goals and
// injuries, keeps those at or above the minimum score and returns the best
// ones in descending score order. Ties keep catalog order.
func (e *Engine) Recommend(target domain.Exercise, catalog []domain.Exercise, goals, injuries []string) []domain.Recommendation {
	goals = normalizeTags(goals)
	injuries = normalizeTags(injuries)
	instructions := e.instructions(injuries)

	var out []domain.Recommendation
	for _, c := range catalog {
		if c.ID == target.ID {
			continue
		}
		score, reasons := e.scoreOne(target, c, goals, injuries)
		if score < e.rules.MinScore {
			continue
		}
		out = append(out, domain.Recommendation{
			Exercise:             c.Clone(),
			MatchScore:           score,
			RecommendationReason: joinReasons(reasons),
			Reasons:              reasons,
			Instructions:         append([]string(nil), instructions...),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })

	limit := e.rules.Limit
	if limit <= 0 {
		limit = 5
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (e *Engine) scoreOne(target, c domain.Exercise, goals, injuries []string) (int, []domain.ScoreReason) {
	name := strings.ToLower(c.Name)
	category := strings.ToLower(c.Category)

	var score int
	var reasons []domain.ScoreReason
	add := func(kind, msg string, impact int) {
		score += impact
		reasons = append(reasons, domain.ScoreReason{Type: kind, Message: msg, Impact: impact})
	}

	for _, g := range goals {
		rule, ok := e.rules.Goals[g]
		if !ok {
			continue
		}
		if containsAny(category, rule.Categories) {
			add(ReasonGoalCategory, fmt.Sprintf("Matches your %s goal", label(g)), rule.Bonus)
		}
		if containsAny(name, rule.Keywords) {
			add(ReasonGoalKeyword, fmt.Sprintf("Movement pattern supports %s", label(g)), e.rules.KeywordBonus)
		}
	}

	for _, inj := range injuries {
		rule, ok := e.rules.Injuries[inj]
		if !ok {
			continue
		}
		switch {
		case containsAny(name, rule.Avoid) || containsAny(category, rule.Avoid):
			// penalties carry no reason text
			score -= e.rules.AvoidPenalty
		case containsAny(name, rule.Safe) || containsAny(category, rule.Safe) || anyContainsAny(c.TargetMuscles, rule.Safe):
			add(ReasonInjurySafe, fmt.Sprintf("Safe for %s condition", label(inj)), rule.Bonus)
		default:
			add(ReasonInjuryLowImpact, fmt.Sprintf("Low impact alternative for %s concerns", label(inj)), e.rules.LowImpactBonus)
		}
	}

	if n := sharedMuscles(target.TargetMuscles, c.TargetMuscles); n > 0 {
		noun := "muscle groups"
		if n == 1 {
			noun = "muscle group"
		}
		add(ReasonSharedMuscles, fmt.Sprintf("Targets %d of the same %s", n, noun), e.rules.SharedMuscleBonus)
	}

	return clampScore(score), reasons
}

// instructions splices injury modifications between the third and fourth
// generic steps.
func (e *Engine) instructions(injuries []string) []string {
	base := e.rules.Instructions
	split := 3
	if len(base) < split {
		split = len(base)
	}

	out := make([]string, 0, len(base)+2*len(injuries))
	out = append(out, base[:split]...)
	for _, inj := range injuries {
		if rule, ok := e.rules.Injuries[inj]; ok {
			out = append(out, rule.Modifications...)
		}
	}
	return append(out, base[split:]...)
}

func joinReasons(reasons []domain.ScoreReason) string {
	if len(reasons) == 0 {
		return fallbackReason
	}
	msgs := make([]string, 0, len(reasons))
	for _, r := range reasons {
		msgs = append(msgs, r.Message)
	}
	return strings.Join(msgs, ". ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		sub = strings.ToLower(strings.TrimSpace(sub))
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func anyContainsAny(values, subs []string) bool {
	for _, v := range values {
		if containsAny(strings.ToLower(v), subs) {
			return true
		}
	}
	return false
}

func sharedMuscles(a, b []string) int {
	have := make(map[string]struct{}, len(a))
	for _, m := range a {
		have[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	n := 0
	for _, m := range b {
		k := strings.ToLower(strings.TrimSpace(m))
		if _, ok := have[k]; ok {
			n++
			delete(have, k)
		}
	}
	return n
}

func label(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
