// Package rules overlays caller-supplied manual rules (pin, always, never) on top of
// computed scores.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/context-priority/internal/model"
)

const (
	ReasonAlways = "manual: always include"
	ReasonNever  = "manual: never include"
	ReasonPin    = "manual: pinned"

	// PinNudge is added to the priority of pinned items.
	PinNudge = 0.08
)

// Map is a rule per item id.
type Map map[string]model.ManualRule

// Parse validates a rule label. The empty string parses as RuleNone.
func Parse(s string) (model.ManualRule, error) {
	r := model.ManualRule(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return model.RuleNone, nil
	}
	if !model.ValidRules[r] {
		return model.RuleNone, fmt.Errorf("invalid rule %q (valid: none, pin, always, never)", s)
	}
	return r, nil
}

// Apply returns a copy of scores with each item's rule applied. Items without a rule
// pass through unchanged. Applying the same map twice equals applying it once.
func Apply(scores []model.Score, rules Map) []model.Score {
	out := make([]model.Score, len(scores))
	for i, s := range scores {
		out[i] = applyOne(s.Clone(), rules[s.ID])
	}
	return out
}

func applyOne(s model.Score, rule model.ManualRule) model.Score {
	switch rule {
	case model.RuleAlways:
		s.Priority = model.Clamp01(max(s.Priority, 0.97))
		s.OmissionRisk = model.Clamp01(max(s.OmissionRisk, 0.9))
		s.Bucket = model.BucketMust
		s.Reasons = prependReason(s.Reasons, ReasonAlways)
	case model.RuleNever:
		s.Priority = model.Clamp01(min(s.Priority, 0.03))
		s.OmissionRisk = model.Clamp01(min(s.OmissionRisk, 0.08))
		s.Bucket = model.BucketSkippable
		s.Reasons = prependReason(s.Reasons, ReasonNever)
	case model.RulePin:
		if s.ManualRule != model.RulePin {
			s.Priority = model.Clamp01(s.Priority + PinNudge)
		}
		s.Reasons = prependReason(s.Reasons, ReasonPin)
	default:
		return s
	}
	s.ManualRule = rule
	return s
}

// prependReason puts r first, dropping any existing copy, capped at MaxOverlayReasons.
func prependReason(reasons []string, r string) []string {
	out := make([]string, 0, len(reasons)+1)
	out = append(out, r)
	for _, existing := range reasons {
		if existing != r {
			out = append(out, existing)
		}
	}
	if len(out) > model.MaxOverlayReasons {
		out = out[:model.MaxOverlayReasons]
	}
	return out
}

// IDSets splits a rule map into sorted always, never, and pinned id lists.
func IDSets(rules Map) (always, never, pinned []string) {
	for id, r := range rules {
		switch r {
		case model.RuleAlways:
			always = append(always, id)
		case model.RuleNever:
			never = append(never, id)
		case model.RulePin:
			pinned = append(pinned, id)
		}
	}
	sort.Strings(always)
	sort.Strings(never)
	sort.Strings(pinned)
	return always, never, pinned
}
