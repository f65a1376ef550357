package content

import (
	"strings"
	"testing"

	"audit-quiz-service/internal/domain"
)

func TestBanksShareIDsAndScoringScale(t *testing.T) {
	sb, err := BankForSegment(domain.SegmentSmallBusiness)
	if err != nil {
		t.Fatalf("small business bank: %v", err)
	}
	np, err := BankForSegment(domain.SegmentNonprofit)
	if err != nil {
		t.Fatalf("nonprofit bank: %v", err)
	}

	if len(sb.Questions) != len(np.Questions) {
		t.Fatalf("question counts differ: %d vs %d", len(sb.Questions), len(np.Questions))
	}
	for i := range sb.Questions {
		a, b := sb.Questions[i], np.Questions[i]
		if a.ID != b.ID || a.Category != b.Category {
			t.Fatalf("question %d: id/category differ across segments", i)
		}
		if len(a.Options) != len(b.Options) {
			t.Fatalf("question %d: option counts differ", a.ID)
		}
		for j := range a.Options {
			if a.Options[j].Value != b.Options[j].Value {
				t.Fatalf("question %d option %d: values differ across segments", a.ID, j)
			}
		}
	}
}

func TestCopyPlaceholdersResolved(t *testing.T) {
	for _, segment := range []domain.Segment{domain.SegmentSmallBusiness, domain.SegmentNonprofit} {
		bank, err := BankForSegment(segment)
		if err != nil {
			t.Fatalf("bank %s: %v", segment, err)
		}
		for _, q := range bank.Questions {
			if strings.Contains(q.Prompt, "{") || strings.Contains(q.Description, "{") {
				t.Fatalf("%s question %d still has placeholders: %q", segment, q.ID, q.Prompt)
			}
		}
	}

	np, _ := BankForSegment(domain.SegmentNonprofit)
	found := false
	for _, q := range np.Questions {
		if strings.Contains(q.Prompt, "donor") || strings.Contains(q.Description, "donation") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("nonprofit bank should use donor/donation copy")
	}
}

func TestEachQuestionHasOneOptionPerValue(t *testing.T) {
	bank, _ := BankForSegment(domain.SegmentSmallBusiness)
	for _, q := range bank.Questions {
		seen := map[int]int{}
		for _, opt := range q.Options {
			seen[opt.Value]++
		}
		for _, v := range []int{0, 1, 2} {
			if seen[v] != 1 {
				t.Fatalf("question %d: expected exactly one option with value %d, got %d", q.ID, v, seen[v])
			}
		}
	}
}

func TestRecommendationPerTier(t *testing.T) {
	for _, tier := range []domain.Tier{domain.TierStrong, domain.TierModerate, domain.TierNeedsFocus} {
		if Recommendation(tier) == "" {
			t.Fatalf("no recommendation copy for tier %q", tier)
		}
	}
}

func TestUnknownSegmentRejected(t *testing.T) {
	if _, err := BankForSegment("enterprise"); err == nil {
		t.Fatalf("expected error for unknown segment")
	}
}
