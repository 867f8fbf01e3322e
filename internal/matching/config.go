package matching

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GoalRule biases candidates toward a fitness objective.
type GoalRule struct {
	Categories []string `yaml:"categories" json:"categories"`
	Keywords   []string `yaml:"keywords" json:"keywords"`
	Bonus      int      `yaml:"bonus" json:"bonus"`
}

// InjuryRule penalizes risky patterns and favors safe ones for a condition.
type InjuryRule struct {
	Avoid         []string `yaml:"avoid" json:"avoid"`
	Safe          []string `yaml:"safe" json:"safe"`
	Bonus         int      `yaml:"bonus" json:"bonus"`
	Modifications []string `yaml:"modifications" json:"modifications"`
}

// Rules holds the scoring tables and flat contributions used by Engine.
type Rules struct {
	Goals    map[string]GoalRule   `yaml:"goals" json:"goals"`
	Injuries map[string]InjuryRule `yaml:"injuries" json:"injuries"`

	KeywordBonus      int `yaml:"keyword_bonus" json:"keyword_bonus"`
	AvoidPenalty      int `yaml:"avoid_penalty" json:"avoid_penalty"`
	LowImpactBonus    int `yaml:"low_impact_bonus" json:"low_impact_bonus"`
	SharedMuscleBonus int `yaml:"shared_muscle_bonus" json:"shared_muscle_bonus"`
	MinScore          int `yaml:"min_score" json:"min_score"`
	Limit             int `yaml:"limit" json:"limit"`

	Instructions []string `yaml:"instructions" json:"instructions"`
}

// DefaultRules returns the built-in goal and injury tables.
func DefaultRules() Rules {
	return Rules{
		Goals: map[string]GoalRule{
			"strength": {
				Categories: []string{"strength", "powerlifting"},
				Keywords:   []string{"press", "squat", "deadlift", "row", "pull"},
				Bonus:      30,
			},
			"muscle_building": {
				Categories: []string{"strength", "hypertrophy", "bodybuilding"},
				Keywords:   []string{"curl", "press", "row", "fly", "extension"},
				Bonus:      25,
			},
			"endurance": {
				Categories: []string{"cardio", "endurance"},
				Keywords:   []string{"run", "bike", "row", "swim"},
				Bonus:      30,
			},
			"weight_loss": {
				Categories: []string{"cardio", "hiit", "conditioning"},
				Keywords:   []string{"burpee", "jump", "sprint", "climber"},
				Bonus:      25,
			},
			"flexibility": {
				Categories: []string{"flexibility", "yoga", "mobility"},
				Keywords:   []string{"stretch", "yoga", "mobility"},
				Bonus:      35,
			},
			"core": {
				Categories: []string{"core", "stability"},
				Keywords:   []string{"plank", "crunch", "twist", "bridge"},
				Bonus:      25,
			},
		},
		Injuries: map[string]InjuryRule{
			"knee": {
				Avoid: []string{"squat", "lunge", "jump", "leg press", "step-up"},
				Safe:  []string{"seated", "upper body", "hamstrings", "swim", "glute bridge"},
				Bonus: 20,
				Modifications: []string{
					"Keep your knees tracking over your toes and avoid locking them out",
					"Limit knee bend to a pain-free range",
				},
			},
			"back": {
				Avoid: []string{"deadlift", "good morning", "bent-over", "back extension"},
				Safe:  []string{"supported", "machine", "seated", "bridge"},
				Bonus: 20,
				Modifications: []string{
					"Brace your core and keep a neutral spine throughout",
					"Use a bench or machine for support where possible",
				},
			},
			"shoulder": {
				Avoid: []string{"overhead", "military", "dip", "upright row"},
				Safe:  []string{"lower body", "legs", "quads", "glutes", "walk"},
				Bonus: 20,
				Modifications: []string{
					"Keep your elbows below shoulder height",
					"Reduce the load if you feel any pinching in the joint",
				},
			},
			"wrist": {
				Avoid: []string{"push-up", "plank", "front squat"},
				Safe:  []string{"machine", "cable", "legs", "cycling"},
				Bonus: 15,
				Modifications: []string{
					"Keep your wrists straight and use a neutral grip",
				},
			},
			"ankle": {
				Avoid: []string{"jump", "run", "calf raise", "skipping"},
				Safe:  []string{"seated", "upper body", "swim", "cycling"},
				Bonus: 15,
				Modifications: []string{
					"Keep both feet planted and avoid explosive movements",
				},
			},
		},
		KeywordBonus:      15,
		AvoidPenalty:      30,
		LowImpactBonus:    10,
		SharedMuscleBonus: 20,
		MinScore:          40,
		Limit:             5,
		Instructions: []string{
			"Set up with good posture and a neutral spine",
			"Start with a light load to practice the movement",
			"Move through a controlled range of motion",
			"Breathe out during the effort and in on the return",
			"Stop if you feel sharp pain and check with your trainer",
		},
	}
}

// rulesFile is the on-disk overlay. Pointer fields tell an explicit zero
// apart from an omitted key.
type rulesFile struct {
	Goals    map[string]GoalRule   `yaml:"goals"`
	Injuries map[string]InjuryRule `yaml:"injuries"`

	KeywordBonus      *int `yaml:"keyword_bonus"`
	AvoidPenalty      *int `yaml:"avoid_penalty"`
	LowImpactBonus    *int `yaml:"low_impact_bonus"`
	SharedMuscleBonus *int `yaml:"shared_muscle_bonus"`
	MinScore          *int `yaml:"min_score"`
	Limit             *int `yaml:"limit"`

	Instructions []string `yaml:"instructions"`
}

// LoadRulesFromFile overlays a YAML (or JSON) rules file onto DefaultRules.
// On read, parse or validation errors the defaults are returned together with
// the error.
func LoadRulesFromFile(path string) (Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return DefaultRules(), fmt.Errorf("read rules file: %w", err)
	}
	var override rulesFile
	if err := yaml.Unmarshal(b, &override); err != nil {
		return DefaultRules(), fmt.Errorf("unmarshal rules: %w", err)
	}
	r := DefaultRules()
	if err := r.merge(override); err != nil {
		return DefaultRules(), fmt.Errorf("rules file %s: %w", path, err)
	}
	return r, nil
}

// YAML encodes the effective rules.
func (r Rules) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

func (r *Rules) merge(o rulesFile) error {
	if o.Limit != nil && *o.Limit == 0 {
		return fmt.Errorf("limit must be positive")
	}
	for k, v := range o.Goals {
		r.Goals[normalizeTag(k)] = v
	}
	for k, v := range o.Injuries {
		r.Injuries[normalizeTag(k)] = v
	}
	ints := []struct {
		name string
		dst  *int
		src  *int
	}{
		{"keyword_bonus", &r.KeywordBonus, o.KeywordBonus},
		{"avoid_penalty", &r.AvoidPenalty, o.AvoidPenalty},
		{"low_impact_bonus", &r.LowImpactBonus, o.LowImpactBonus},
		{"shared_muscle_bonus", &r.SharedMuscleBonus, o.SharedMuscleBonus},
		{"min_score", &r.MinScore, o.MinScore},
		{"limit", &r.Limit, o.Limit},
	}
	for _, f := range ints {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return fmt.Errorf("%s must not be negative, got %d", f.name, *f.src)
		}
		*f.dst = *f.src
	}
	if len(o.Instructions) > 0 {
		r.Instructions = o.Instructions
	}
	return nil
}

// normalizeTag lower-cases a goal or injury tag and folds spaces and hyphens to "_".
func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// normalizeTags normalizes and de-duplicates tags, keeping first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := normalizeTag(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
