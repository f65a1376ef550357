package domain

import "time"

// Segment is the audience classification selected at the start of a quiz.
// It selects question copy only; scoring is identical across segments.
type Segment string

const (
	SegmentUnset         Segment = ""
	SegmentSmallBusiness Segment = "small-business"
	SegmentNonprofit     Segment = "nonprofit"
)

// Valid reports whether the segment is one of the selectable variants.
func (s Segment) Valid() bool {
	return s == SegmentSmallBusiness || s == SegmentNonprofit
}

// Phase is the screen the quiz session is currently on.
type Phase string

const (
	PhaseSegmentSelect Phase = "segment-select"
	PhaseQuestion      Phase = "question"
	PhaseEmailCapture  Phase = "email-capture"
	PhaseResults       Phase = "results"
)

// Option is a possible answer worth 0, 1 or 2 points.
type Option struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// Question models a scored multiple-choice question. Immutable after load.
type Question struct {
	ID          int      `json:"id"`
	Category    string   `json:"category"`
	Prompt      string   `json:"prompt"`
	Description string   `json:"description,omitempty"`
	Options     []Option `json:"options"`
}

// HasValue reports whether value matches one of the question's options.
func (q Question) HasValue(value int) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Answer records the selected option value for a question. The active answer
// set holds at most one Answer per question ID.
type Answer struct {
	QuestionID int `json:"questionId"`
	Value      int `json:"value"`
}

// CopyBundle holds the audience-specific nouns substituted into question and
// results copy at bank construction time.
type CopyBundle struct {
	Audience   string `json:"audience"`
	Conversion string `json:"conversion"`
	Headline   string `json:"headline"`
}

// QuestionBank is the ordered question set for one segment.
type QuestionBank struct {
	Segment   Segment    `json:"segment"`
	Questions []Question `json:"questions"`
	Copy      CopyBundle `json:"copy"`
}

// Tier is the qualitative classification of a percentage score.
type Tier string

const (
	TierStrong     Tier = "strong"
	TierModerate   Tier = "moderate"
	TierNeedsFocus Tier = "needs-focus"
)

// TierFor classifies a percentage. Band lower bounds are inclusive.
func TierFor(percentage float64) Tier {
	switch {
	case percentage >= 80:
		return TierStrong
	case percentage >= 50:
		return TierModerate
	default:
		return TierNeedsFocus
	}
}

// CategoryScore is the derived sub-score for one question category.
type CategoryScore struct {
	Category   string  `json:"category"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"maxScore"`
	Percentage float64 `json:"percentage"`
	Tier       Tier    `json:"tier"`
	Questions  int     `json:"questions"`
}

// ScoreReport is the full scoring breakdown rendered on the results screen.
type ScoreReport struct {
	Score         int             `json:"score"`
	MaxScore      int             `json:"maxScore"`
	Percentage    float64         `json:"percentage"`
	Tier          Tier            `json:"tier"`
	ByCategory    []CategoryScore `json:"byCategory"`
	TopPriorities []CategoryScore `json:"topPriorities"`
	Strengths     []CategoryScore `json:"strengths"`
}

// LeadData is the input captured on the email screen.
type LeadData struct {
	Email     string  `json:"email"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Company   string  `json:"company,omitempty"`
	Role      string  `json:"role,omitempty"`
	TeamSize  string  `json:"teamSize,omitempty"`
	QuizScore int     `json:"quizScore"`
	Segment   Segment `json:"segment"`
	// DNAScores carries the per-category percentage breakdown synced to the CRM.
	DNAScores  map[string]float64 `json:"dnaScores,omitempty"`
	LeadSource string             `json:"leadSource,omitempty"`
}

// Lead is a persisted prospective-customer record. Local persistence is the
// durability boundary; the hubspot_* fields track best-effort CRM sync.
type Lead struct {
	ID               string             `json:"id"`
	Email            string             `json:"email"`
	FirstName        string             `json:"firstName,omitempty"`
	LastName         string             `json:"lastName,omitempty"`
	Company          string             `json:"company,omitempty"`
	Role             string             `json:"role,omitempty"`
	TeamSize         string             `json:"teamSize,omitempty"`
	QuizScore        int                `json:"quizScore"`
	Segment          Segment            `json:"segment"`
	DNAScores        map[string]float64 `json:"dnaScores,omitempty"`
	LeadSource       string             `json:"leadSource,omitempty"`
	SubmittedAt      time.Time          `json:"submittedAt"`
	HubspotSynced    bool               `json:"hubspotSynced"`
	HubspotSyncError string             `json:"hubspotSyncError,omitempty"`
	HubspotContactID string             `json:"hubspotContactId,omitempty"`
}

// SyncStatus summarizes a lead's CRM propagation state.
func (l Lead) SyncStatus() string {
	if l.HubspotSynced {
		return "synced"
	}
	if l.HubspotSyncError != "" {
		return "failed"
	}
	return "pending"
}

// SessionSnapshot is the read-only view of a quiz session handed to the
// presentation layer after every operation.
type SessionSnapshot struct {
	SessionID     string     `json:"sessionId"`
	Segment       Segment    `json:"segment"`
	Phase         Phase      `json:"phase"`
	CurrentIndex  int        `json:"currentIndex"`
	QuestionCount int        `json:"questionCount"`
	Question      *Question  `json:"question,omitempty"`
	SelectedValue *int       `json:"selectedValue,omitempty"`
	Answers       []Answer   `json:"answers"`
	Copy          CopyBundle `json:"copy"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CaptureResult is the outcome of a lead capture. Success tracks local
// persistence only; CRM failure is recorded on the lead, never raised here.
type CaptureResult struct {
	Success bool   `json:"success"`
	Lead    *Lead  `json:"lead,omitempty"`
	Error   string `json:"error,omitempty"`
}
