package app_test

import (
	"math"
	"testing"

	"audit-quiz-service/internal/app"
	"audit-quiz-service/internal/content"
	"audit-quiz-service/internal/domain"
)

func TestScoreFullCoverageFormula(t *testing.T) {
	questions := twoCategoryBank()
	answers := []domain.Answer{
		{QuestionID: 1, Value: 2},
		{QuestionID: 2, Value: 1},
		{QuestionID: 3, Value: 1},
		{QuestionID: 4, Value: 0},
		{QuestionID: 5, Value: 2},
		{QuestionID: 6, Value: 2},
		{QuestionID: 7, Value: 1},
		{QuestionID: 8, Value: 2},
		{QuestionID: 9, Value: 1},
	}

	report := app.Score(answers, questions)

	sum := 0
	for _, a := range answers {
		sum += a.Value
	}
	want := 100 * float64(sum) / float64(len(questions)*2)
	if !closeTo(report.Percentage, want) {
		t.Fatalf("overall percentage = %v, want %v", report.Percentage, want)
	}
	if report.Score != sum || report.MaxScore != len(questions)*2 {
		t.Fatalf("overall score = %d/%d, want %d/%d", report.Score, report.MaxScore, sum, len(questions)*2)
	}
}

func TestScoreTierBoundaries(t *testing.T) {
	questions := []domain.Question{
		{ID: 1, Category: "A", Options: threeOptions()},
		{ID: 2, Category: "A", Options: threeOptions()},
	}

	cases := []struct {
		name       string
		values     [2]int
		percentage float64
		tier       domain.Tier
	}{
		{"all twos is strong", [2]int{2, 2}, 100, domain.TierStrong},
		{"all zeros needs focus", [2]int{0, 0}, 0, domain.TierNeedsFocus},
		{"exactly half is moderate", [2]int{2, 0}, 50, domain.TierModerate},
	}
	for _, tc := range cases {
		answers := []domain.Answer{
			{QuestionID: 1, Value: tc.values[0]},
			{QuestionID: 2, Value: tc.values[1]},
		}
		report := app.Score(answers, questions)
		cat := report.ByCategory[0]
		if !closeTo(cat.Percentage, tc.percentage) || cat.Tier != tc.tier {
			t.Fatalf("%s: got %v%% tier %s, want %v%% tier %s", tc.name, cat.Percentage, cat.Tier, tc.percentage, tc.tier)
		}
	}
}

func TestScoreTwoThirdsScenario(t *testing.T) {
	// Categories A (3 questions) and B (6 questions); 4/6 in A, 8/12 in B.
	questions := twoCategoryBank()
	answers := []domain.Answer{
		{QuestionID: 1, Value: 2},
		{QuestionID: 2, Value: 2},
		{QuestionID: 3, Value: 0},
		{QuestionID: 4, Value: 2},
		{QuestionID: 5, Value: 2},
		{QuestionID: 6, Value: 2},
		{QuestionID: 7, Value: 2},
		{QuestionID: 8, Value: 0},
		{QuestionID: 9, Value: 0},
	}

	report := app.Score(answers, questions)

	if len(report.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(report.ByCategory))
	}
	twoThirds := 100.0 * 2 / 3
	for _, cat := range report.ByCategory {
		if !closeTo(cat.Percentage, twoThirds) {
			t.Fatalf("category %s percentage = %v, want %v", cat.Category, cat.Percentage, twoThirds)
		}
		if cat.Tier != domain.TierModerate {
			t.Fatalf("category %s tier = %s, want moderate", cat.Category, cat.Tier)
		}
	}
	if report.Score != 12 || report.MaxScore != 18 {
		t.Fatalf("overall = %d/%d, want 12/18", report.Score, report.MaxScore)
	}
	if !closeTo(report.Percentage, twoThirds) || report.Tier != domain.TierModerate {
		t.Fatalf("overall percentage = %v tier %s, want %v moderate", report.Percentage, report.Tier, twoThirds)
	}
}

func TestScorePartialAnswersNeverDivideByZero(t *testing.T) {
	questions := twoCategoryBank()
	// Only category A answered; category B untouched.
	answers := []domain.Answer{
		{QuestionID: 1, Value: 2},
		{QuestionID: 2, Value: 1},
	}

	report := app.Score(answers, questions)

	var catA, catB domain.CategoryScore
	for _, cat := range report.ByCategory {
		switch cat.Category {
		case "A":
			catA = cat
		case "B":
			catB = cat
		}
	}
	if catA.Score != 3 || catA.MaxScore != 4 {
		t.Fatalf("answered category = %d/%d, want 3/4", catA.Score, catA.MaxScore)
	}
	if catB.Percentage != 0 || catB.Tier != domain.TierNeedsFocus {
		t.Fatalf("unanswered category = %v%% tier %s, want 0%% needs-focus", catB.Percentage, catB.Tier)
	}
}

func TestScoreCategoriesKeepFirstSeenOrder(t *testing.T) {
	questions := []domain.Question{
		{ID: 1, Category: "Z", Options: threeOptions()},
		{ID: 2, Category: "A", Options: threeOptions()},
		{ID: 3, Category: "Z", Options: threeOptions()},
	}
	report := app.Score(nil, questions)
	if report.ByCategory[0].Category != "Z" || report.ByCategory[1].Category != "A" {
		t.Fatalf("expected first-seen order [Z A], got %+v", report.ByCategory)
	}
}

func TestScoreIsSegmentAgnostic(t *testing.T) {
	banks := content.Banks()
	sb := banks[domain.SegmentSmallBusiness]
	np := banks[domain.SegmentNonprofit]

	answers := make([]domain.Answer, 0, len(sb.Questions))
	for i, q := range sb.Questions {
		answers = append(answers, domain.Answer{QuestionID: q.ID, Value: i % 3})
	}

	got := app.Score(answers, sb.Questions)
	want := app.Score(answers, np.Questions)

	if got.Score != want.Score || got.Percentage != want.Percentage || got.Tier != want.Tier {
		t.Fatalf("segment changed scoring: %+v vs %+v", got, want)
	}
	for i := range got.ByCategory {
		if got.ByCategory[i] != want.ByCategory[i] {
			t.Fatalf("segment changed category %d: %+v vs %+v", i, got.ByCategory[i], want.ByCategory[i])
		}
	}
}

func twoCategoryBank() []domain.Question {
	questions := make([]domain.Question, 0, 9)
	for id := 1; id <= 3; id++ {
		questions = append(questions, domain.Question{ID: id, Category: "A", Options: threeOptions()})
	}
	for id := 4; id <= 9; id++ {
		questions = append(questions, domain.Question{ID: id, Category: "B", Options: threeOptions()})
	}
	return questions
}

func threeOptions() []domain.Option {
	return []domain.Option{
		{Text: "best", Value: 2},
		{Text: "some", Value: 1},
		{Text: "none", Value: 0},
	}
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
