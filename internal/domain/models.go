package domain

// Exercise is a read-only catalog entry.
type Exercise struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	TargetMuscles []string `json:"target_muscles"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Equipment     string   `json:"equipment,omitempty"`
	Sets          int      `json:"sets,omitempty"`
	Reps          string   `json:"reps,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// Clone returns a copy that shares no slices with e.
func (e Exercise) Clone() Exercise {
	if e.TargetMuscles != nil {
		e.TargetMuscles = append([]string(nil), e.TargetMuscles...)
	}
	return e
}

// Recommendation is an alternative exercise with its score and explanation.
type Recommendation struct {
	Exercise
	MatchScore           int           `json:"match_score"`
	RecommendationReason string        `json:"recommendation_reason"`
	Reasons              []ScoreReason `json:"reasons"`
	Instructions         []string      `json:"instructions"`
}

type ScoreReason struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Impact  int    `json:"impact"`
}

// ExerciseFilter narrows a catalog listing. Zero values mean "no constraint".
type ExerciseFilter struct {
	Category string
	Query    string
	IDs      []int
	Limit    int
	Offset   int
}
