package model

// Bucket is a coarse importance class derived from the sub-scores.
type Bucket string

const (
	BucketMust        Bucket = "must"
	BucketRecommended Bucket = "recommended"
	BucketOptional    Bucket = "optional"
	BucketSkippable   Bucket = "skippable"
)

// ManualRule is a caller-supplied override for one item.
type ManualRule string

const (
	RuleNone   ManualRule = "none"
	RulePin    ManualRule = "pin"
	RuleAlways ManualRule = "always"
	RuleNever  ManualRule = "never"
)

// ValidRules are the rule values accepted from a preference store.
var ValidRules = map[ManualRule]bool{
	RuleNone:   true,
	RulePin:    true,
	RuleAlways: true,
	RuleNever:  true,
}

// SelectionTag records why an item ended up in a selection.
type SelectionTag string

const (
	TagNone       SelectionTag = "none"
	TagAlways     SelectionTag = "always"
	TagMust       SelectionTag = "must"
	TagValue      SelectionTag = "value"
	TagDependency SelectionTag = "dependency"
)

// MaxReasons bounds the reasons produced by the scorer.
const MaxReasons = 4

// MaxOverlayReasons bounds the reasons after a manual rule is prepended.
const MaxOverlayReasons = 5

// Score is the engine's assessment of one item.
type Score struct {
	ID              string       `json:"id"`
	Kind            Kind         `json:"kind"`
	Priority        float64      `json:"priority"`
	Locality        float64      `json:"locality"`
	Relevance       float64      `json:"relevance"`
	OmissionRisk    float64      `json:"omission_risk"`
	Redundancy      float64      `json:"redundancy"`
	CostPenalty     float64      `json:"cost_penalty"`
	Recency         float64      `json:"recency"`
	EstimatedTokens int          `json:"estimated_tokens"`
	Bucket          Bucket       `json:"bucket"`
	Reasons         []string     `json:"reasons"`
	ManualRule      ManualRule   `json:"manual_rule"`
	SelectionTag    SelectionTag `json:"selection_tag"`
	DependencyIDs   []string     `json:"dependency_ids,omitempty"`
}

// Clone returns a deep copy so callers can transform scores without aliasing slices.
func (s Score) Clone() Score {
	c := s
	if s.Reasons != nil {
		c.Reasons = append([]string(nil), s.Reasons...)
	}
	if s.DependencyIDs != nil {
		c.DependencyIDs = append([]string(nil), s.DependencyIDs...)
	}
	return c
}

// SelectionResult is the output of budgeted selection.
type SelectionResult struct {
	Budget             int      `json:"budget"`
	Selected           []Score  `json:"selected"`
	Omitted            []Score  `json:"omitted"`
	UsedTokens         int      `json:"used_tokens"`
	DependencyAddedIDs []string `json:"dependency_added_ids"`
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
