// Package scorer assigns sub-scores, an aggregate priority, and an importance bucket
// to each item of a candidate pool relative to a pending request.
package scorer

import (
	"math"
	"strings"
	"time"

	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/terms"
	"github.com/rcliao/context-priority/internal/tokens"
)

const (
	// mentionFirst is added for the first request term found verbatim in the item.
	mentionFirst = 0.12
	// mentionNext is added for each further request term found verbatim.
	mentionNext = 0.05
	// mentionTerms bounds how many request terms are checked for mentions.
	mentionTerms = 8

	// CostScale is the token count at which the cost penalty saturates.
	CostScale = 1200.0
)

// Options configures a scoring pass.
type Options struct {
	// Now is the reference time for recency. Zero means time.Now().
	Now time.Time
}

// request holds the precomputed view of the request text.
type request struct {
	terms terms.Terms
}

// ScoreItems scores every item of the pool against requestText. The corpus
// frequency table is built fresh from items on every call.
func ScoreItems(items []model.Item, requestText string, opts Options) []model.Score {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	corpus := terms.BuildCorpus(items)
	req := request{terms: terms.Extract(requestText)}

	out := make([]model.Score, 0, len(items))
	for _, it := range items {
		out = append(out, score(it, req, corpus, now))
	}
	return out
}

// ScoreItem scores one item given a corpus frequency table and the pool size.
func ScoreItem(it model.Item, requestText string, freq terms.Frequency, corpusSize int, now time.Time) model.Score {
	return score(it, request{terms: terms.Extract(requestText)}, terms.Corpus{Frequency: freq, Size: corpusSize}, now)
}

func score(it model.Item, req request, corpus terms.Corpus, now time.Time) model.Score {
	raw := terms.ItemText(it)
	normalized := terms.Normalize(raw)
	itemTerms := terms.Extract(raw)

	relevance := model.Clamp01(0.75*terms.Overlap(itemTerms, req.terms) + 0.4*mentionBoost(normalized, req.terms))

	sig := ComputeSignals(itemTerms, terms.Surface(raw), corpus)
	prior := PriorFor(it.Kind)

	locality := model.Clamp01(prior.Locality*0.55 +
		ratio(sig.RareHits, 6)*0.22 +
		ratio(sig.TechnicalHits, 5)*0.12 +
		ratio(sig.NamingHits, 3)*0.10 +
		ratio(sig.UniqueLikeHits, 5)*0.10)

	est := tokens.Estimate(it.Text)
	costPenalty := model.Clamp01(float64(est) / CostScale)

	genericHits := terms.GenericHits(normalized)
	constraintHits := terms.ConstraintHits(normalized)

	lowRelevance := 0.0
	if relevance < 0.1 {
		lowRelevance = 0.15
	}
	redundancy := model.Clamp01(prior.RedundancyBias*0.5 +
		(1-ratio(sig.RareHits, 5))*0.2 +
		ratio(genericHits, 4)*0.25 +
		lowRelevance)

	recency := Recency(it.CreatedAt, now)

	omission := model.Clamp01(prior.Omission*0.45 +
		relevance*0.28 +
		locality*0.20 +
		ratio(constraintHits, 2)*0.14 +
		recency*0.06)

	priority := model.Clamp01(omission*0.42 +
		relevance*0.36 +
		locality*0.18 +
		recency*0.08 -
		redundancy*0.16 -
		costPenalty*0.14)

	s := model.Score{
		ID:              it.ID,
		Kind:            it.Kind,
		Priority:        round4(priority),
		Locality:        round4(locality),
		Relevance:       round4(relevance),
		OmissionRisk:    round4(omission),
		Redundancy:      round4(redundancy),
		CostPenalty:     round4(costPenalty),
		Recency:         recency,
		EstimatedTokens: est,
		ManualRule:      model.RuleNone,
		SelectionTag:    model.TagNone,
	}
	s.Bucket = Classify(s)
	s.Reasons = Reasons(s, prior)
	return s
}

// mentionBoost rewards request terms that occur verbatim in the normalized item text.
func mentionBoost(normalized string, reqTerms terms.Terms) float64 {
	if normalized == "" {
		return 0
	}
	boost := 0.0
	found := false
	for i, term := range reqTerms {
		if i >= mentionTerms {
			break
		}
		if !strings.Contains(normalized, term) {
			continue
		}
		if !found {
			boost += mentionFirst
			found = true
		} else {
			boost += mentionNext
		}
	}
	return boost
}

// Classify derives the bucket from the sub-scores.
func Classify(s model.Score) model.Bucket {
	switch {
	case s.OmissionRisk >= 0.72 && (s.Relevance >= 0.16 || s.Locality >= 0.55):
		return model.BucketMust
	case s.Priority >= 0.5 || (s.Relevance >= 0.25 && s.OmissionRisk >= 0.45):
		return model.BucketRecommended
	case s.Priority >= 0.28:
		return model.BucketOptional
	default:
		return model.BucketSkippable
	}
}

// Reasons lists up to model.MaxReasons short justifications in fixed order.
func Reasons(s model.Score, prior Prior) []string {
	var out []string
	add := func(r string) {
		if len(out) < model.MaxReasons {
			out = append(out, r)
		}
	}
	switch {
	case s.Relevance >= 0.45:
		add("strong request match")
	case s.Relevance >= 0.2:
		add("partial request match")
	}
	if s.Locality >= 0.6 {
		add("project-specific detail")
	}
	if s.OmissionRisk >= 0.72 {
		add("high omission risk")
	}
	if prior.Tag != "" {
		add(prior.Tag)
	}
	if s.CostPenalty >= 0.5 {
		add("high token cost")
	}
	if s.Redundancy >= 0.45 {
		add("likely redundant")
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func ratio(n, scale int) float64 {
	return math.Min(1, float64(n)/float64(scale))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
