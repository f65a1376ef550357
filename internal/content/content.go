// Package content carries the canonical audit question set and the
// per-segment copy table. The content is configuration: swapping it does not
// change scoring, which only depends on option values.
package content

import (
	"strings"

	"audit-quiz-service/internal/domain"
)

// copyBundles resolves audience nouns once per segment. Question prompts and
// descriptions may reference {audience} and {conversion}.
var copyBundles = map[domain.Segment]domain.CopyBundle{
	domain.SegmentSmallBusiness: {
		Audience:   "customers",
		Conversion: "sales",
		Headline:   "Small businesses like yours can gain a significant competitive advantage with better data practices.",
	},
	domain.SegmentNonprofit: {
		Audience:   "donors",
		Conversion: "donations",
		Headline:   "As a nonprofit, better data practices help you maximize your impact.",
	},
}

// recommendations maps a tier to the advice shown under each category score.
var recommendations = map[domain.Tier]string{
	domain.TierStrong:     "Your strength here is driving results. Consider sharing this success with other areas.",
	domain.TierModerate:   "Good foundation with room for optimization. Small improvements here can yield significant returns.",
	domain.TierNeedsFocus: "High-impact opportunity. Addressing this area should be a priority for immediate results.",
}

// Recommendation returns the advice copy for a tier.
func Recommendation(tier domain.Tier) string {
	return recommendations[tier]
}

// BankForSegment builds the question bank for a segment with copy resolved.
func BankForSegment(segment domain.Segment) (domain.QuestionBank, error) {
	bundle, ok := copyBundles[segment]
	if !ok {
		return domain.QuestionBank{}, domain.ErrInvalidSegment
	}
	replacer := strings.NewReplacer("{audience}", bundle.Audience, "{conversion}", bundle.Conversion)

	base := questions()
	resolved := make([]domain.Question, len(base))
	for i, q := range base {
		q.Prompt = replacer.Replace(q.Prompt)
		q.Description = replacer.Replace(q.Description)
		opts := make([]domain.Option, len(q.Options))
		for j, opt := range q.Options {
			opt.Text = replacer.Replace(opt.Text)
			opts[j] = opt
		}
		q.Options = opts
		resolved[i] = q
	}
	return domain.QuestionBank{Segment: segment, Questions: resolved, Copy: bundle}, nil
}

// Banks returns both segment banks, keyed by segment. Used to seed static
// loaders when no database is configured.
func Banks() map[domain.Segment]domain.QuestionBank {
	banks := make(map[domain.Segment]domain.QuestionBank, len(copyBundles))
	for segment := range copyBundles {
		bank, err := BankForSegment(segment)
		if err != nil {
			continue
		}
		banks[segment] = bank
	}
	return banks
}

// questions is the base question set. IDs are stable; the sequence and the
// 0/1/2 scoring scale are identical across segments.
func questions() []domain.Question {
	return []domain.Question{
		{
			ID:          1,
			Category:    "Behavioral Signals",
			Prompt:      "How often do you analyze user behavior patterns like rage clicks or bounce rates?",
			Description: "Understanding where users get frustrated reveals critical conversion barriers.",
			Options: []domain.Option{
				{Text: "Regularly track and analyze patterns", Value: 2},
				{Text: "Occasionally review basic metrics", Value: 1},
				{Text: "Not currently tracking", Value: 0},
			},
		},
		{
			ID:          2,
			Category:    "Content & Voice",
			Prompt:      "How consistent is your messaging across all {audience} touchpoints?",
			Description: "Inconsistent voice creates confusion and reduces trust in your brand.",
			Options: []domain.Option{
				{Text: "Very consistent with clear guidelines", Value: 2},
				{Text: "Mostly consistent with some gaps", Value: 1},
				{Text: "Inconsistent or unclear messaging", Value: 0},
			},
		},
		{
			ID:          3,
			Category:    "Conversion Pathways",
			Prompt:      "How clear and optimized are your calls-to-action?",
			Description: "Weak CTAs are conversion killers - even small changes can double results.",
			Options: []domain.Option{
				{Text: "Highly optimized and tested", Value: 2},
				{Text: "Clear but not extensively tested", Value: 1},
				{Text: "Unclear or poorly positioned", Value: 0},
			},
		},
		{
			ID:          4,
			Category:    "User Experience",
			Prompt:      "How well does your site perform on mobile devices?",
			Description: "Poor mobile experience can cost you 60%+ of potential {conversion}.",
			Options: []domain.Option{
				{Text: "Fully optimized and fast", Value: 2},
				{Text: "Good but could be improved", Value: 1},
				{Text: "Poor mobile performance", Value: 0},
			},
		},
		{
			ID:          5,
			Category:    "Trust & Credibility",
			Prompt:      "How prominent is your social proof and credibility indicators?",
			Description: "Trust signals can increase {conversion} by 15-30% when properly displayed.",
			Options: []domain.Option{
				{Text: "Strong, visible social proof", Value: 2},
				{Text: "Some testimonials or reviews", Value: 1},
				{Text: "Limited or no social proof", Value: 0},
			},
		},
		{
			ID:          6,
			Category:    "Measurement",
			Prompt:      "How well can you track {audience} journeys from first touch to conversion?",
			Description: "Without proper tracking, you're flying blind on what actually drives results.",
			Options: []domain.Option{
				{Text: "Comprehensive tracking setup", Value: 2},
				{Text: "Basic analytics in place", Value: 1},
				{Text: "Limited or no tracking", Value: 0},
			},
		},
		{
			ID:          7,
			Category:    "Behavioral Signals",
			Prompt:      "Do you know which pages cause {audience} to abandon their journey?",
			Description: "Identifying drop-off points is crucial for fixing conversion leaks.",
			Options: []domain.Option{
				{Text: "Clear understanding of drop-offs", Value: 2},
				{Text: "Some awareness but not detailed", Value: 1},
				{Text: "No clear visibility", Value: 0},
			},
		},
		{
			ID:          8,
			Category:    "Content & Voice",
			Prompt:      "How well does your content address actual {audience} concerns and questions?",
			Description: "User-centered content converts 3x better than feature-focused copy.",
			Options: []domain.Option{
				{Text: "Highly user-focused content", Value: 2},
				{Text: "Mix of user and feature focus", Value: 1},
				{Text: "Mostly feature-focused content", Value: 0},
			},
		},
		{
			ID:          9,
			Category:    "Conversion Pathways",
			Prompt:      "How streamlined is your path from first visit to completed {conversion}?",
			Description: "Every extra step or friction point reduces {conversion} by 10-20%.",
			Options: []domain.Option{
				{Text: "Highly streamlined process", Value: 2},
				{Text: "Reasonably smooth with some steps", Value: 1},
				{Text: "Complex or confusing process", Value: 0},
			},
		},
		{
			ID:          10,
			Category:    "User Experience",
			Prompt:      "How quickly can {audience} find what they came for?",
			Description: "Confusing navigation quietly drains {conversion} before anyone reaches a form.",
			Options: []domain.Option{
				{Text: "Within a click or two", Value: 2},
				{Text: "Usually, with some searching", Value: 1},
				{Text: "Often they give up", Value: 0},
			},
		},
		{
			ID:          11,
			Category:    "Trust & Credibility",
			Prompt:      "How transparent are you about how {audience} data is handled?",
			Description: "Clear privacy and handling practices are table stakes for {audience} trust.",
			Options: []domain.Option{
				{Text: "Clearly published and easy to find", Value: 2},
				{Text: "Available but buried", Value: 1},
				{Text: "Not documented anywhere", Value: 0},
			},
		},
		{
			ID:          12,
			Category:    "Measurement",
			Prompt:      "Do you review your {conversion} data on a regular schedule?",
			Description: "A standing review cadence turns raw numbers into decisions.",
			Options: []domain.Option{
				{Text: "Yes, on a fixed cadence", Value: 2},
				{Text: "Ad hoc, when something breaks", Value: 1},
				{Text: "Rarely or never", Value: 0},
			},
		},
	}
}
