package app

import "audit-quiz-service/internal/domain"

// maxOptionValue is the top score per question on the 0/1/2 scale.
const maxOptionValue = 2

// Score reduces an answer set over a question list into per-category and
// overall percentages. Pure: segment never enters the computation.
//
// Only answered questions contribute to a category's score and max score, so
// scoring a partially answered quiz never divides by zero; a category with no
// answered questions reports 0% and needs-focus.
func Score(answers []domain.Answer, questions []domain.Question) domain.ScoreReport {
	byID := make(map[int]int, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a.Value
	}

	type bucket struct {
		score     int
		answered  int
		questions int
	}
	order := make([]string, 0, 8)
	buckets := make(map[string]*bucket)

	total := 0
	totalAnswered := 0
	for _, q := range questions {
		b, ok := buckets[q.Category]
		if !ok {
			b = &bucket{}
			buckets[q.Category] = b
			order = append(order, q.Category)
		}
		b.questions++
		value, answered := byID[q.ID]
		if !answered {
			continue
		}
		b.score += value
		b.answered++
		total += value
		totalAnswered++
	}

	byCategory := make([]domain.CategoryScore, 0, len(order))
	for _, category := range order {
		b := buckets[category]
		byCategory = append(byCategory, categoryScore(category, b.score, b.answered, b.questions))
	}

	overall := categoryScore("", total, totalAnswered, len(questions))
	return domain.ScoreReport{
		Score:         overall.Score,
		MaxScore:      overall.MaxScore,
		Percentage:    overall.Percentage,
		Tier:          overall.Tier,
		ByCategory:    byCategory,
		TopPriorities: pickByTier(byCategory, domain.TierNeedsFocus, 2),
		Strengths:     pickByTier(byCategory, domain.TierStrong, 2),
	}
}

func categoryScore(category string, score, answered, questions int) domain.CategoryScore {
	maxScore := answered * maxOptionValue
	percentage := 0.0
	if maxScore > 0 {
		percentage = 100 * float64(score) / float64(maxScore)
	}
	return domain.CategoryScore{
		Category:   category,
		Score:      score,
		MaxScore:   maxScore,
		Percentage: percentage,
		Tier:       domain.TierFor(percentage),
		Questions:  questions,
	}
}

func pickByTier(scores []domain.CategoryScore, tier domain.Tier, limit int) []domain.CategoryScore {
	picked := make([]domain.CategoryScore, 0, limit)
	for _, cs := range scores {
		if cs.Tier != tier {
			continue
		}
		picked = append(picked, cs)
		if len(picked) == limit {
			break
		}
	}
	return picked
}
