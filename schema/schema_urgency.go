package schema

// UrgencyScore ranks how pressing it is to study a topic right now.
type UrgencyScore struct {
	TopicID            string  `json:"topic_id"`
	SubjectID          string  `json:"subject_id,omitempty"`
	MeanEstimate       float64 `json:"mean_estimate"`
	Deficiency         float64 `json:"deficiency"`
	DaysSinceLast      float64 `json:"days_since_last"`
	HasActivity        bool    `json:"has_activity"`
	RecencyWeight      float64 `json:"recency_weight"`
	CrunchMultiplier   float64 `json:"crunch_multiplier"`
	CompositeScore     float64 `json:"composite_score"`
	RecommendationText string  `json:"recommendation_text"`
}

// Recommendation is the selector output: the top topic plus the full ranking.
type Recommendation struct {
	HasSuggestion bool           `json:"has_suggestion"`
	Top           *UrgencyScore  `json:"top,omitempty"`
	Ranked        []UrgencyScore `json:"ranked"`
	Text          string         `json:"text"`
}

// Goal is a generated study task derived from an urgency score.
type Goal struct {
	Rank      int      `json:"rank"`
	TopicID   string   `json:"topic_id"`
	SubjectID string   `json:"subject_id,omitempty"`
	Questions int      `json:"questions"`
	Priority  Priority `json:"priority"`
	Text      string   `json:"text"`
}
