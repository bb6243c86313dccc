package scorer

import "github.com/rcliao/context-priority/internal/model"

// Prior is the per-kind starting point for locality, omission risk, and redundancy.
type Prior struct {
	Locality       float64
	Omission       float64
	RedundancyBias float64
	// Tag is the reason string emitted for items of this kind ("" for none).
	Tag string
}

// DefaultPrior applies to kinds missing from Priors.
var DefaultPrior = Prior{Locality: 0.44, Omission: 0.52, RedundancyBias: 0.26}

// Priors is the fixed per-kind table.
var Priors = map[model.Kind]Prior{
	model.KindDecision:         {Locality: 0.72, Omission: 0.90, RedundancyBias: 0.15, Tag: "decision record"},
	model.KindAssumption:       {Locality: 0.70, Omission: 0.82, RedundancyBias: 0.18, Tag: "stated assumption"},
	model.KindPlan:             {Locality: 0.64, Omission: 0.80, RedundancyBias: 0.14, Tag: "active plan"},
	model.KindResource:         {Locality: 0.68, Omission: 0.74, RedundancyBias: 0.20, Tag: "referenced resource"},
	model.KindFold:             {Locality: 0.62, Omission: 0.76, RedundancyBias: 0.12, Tag: "folded summary"},
	model.KindContextCandidate: {Locality: 0.46, Omission: 0.48, RedundancyBias: 0.35, Tag: "context candidate"},
	model.KindMessage:          {Locality: 0.50, Omission: 0.54, RedundancyBias: 0.30},
}

// PriorFor looks up the prior for a kind.
func PriorFor(k model.Kind) Prior {
	if p, ok := Priors[model.ParseKind(string(k))]; ok {
		return p
	}
	return DefaultPrior
}
