package http

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"

	"audit-quiz-service/internal/app"
	"audit-quiz-service/internal/content"
	"audit-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler is the presentation contract: one websocket per quiz session,
// with messages mapping one-to-one onto the state machine operations.
// Rejected operations come back as non-fatal error messages; the session
// state they left untouched follows in the next snapshot.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectSegmentPayload struct {
	Segment string `json:"segment"`
}

type answerPayload struct {
	Value int `json:"value"`
}

type submitEmailPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Role      string `json:"role"`
	TeamSize  string `json:"teamSize"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type categoryResult struct {
	domain.CategoryScore
	Recommendation string `json:"recommendation"`
}

type resultsPayload struct {
	Score         int                    `json:"score"`
	MaxScore      int                    `json:"maxScore"`
	Percentage    float64                `json:"percentage"`
	Tier          domain.Tier            `json:"tier"`
	ByCategory    []categoryResult       `json:"byCategory"`
	TopPriorities []domain.CategoryScore `json:"topPriorities"`
	Strengths     []domain.CategoryScore `json:"strengths"`
}

type capturePayload struct {
	Success    bool   `json:"success"`
	SyncStatus string `json:"syncStatus,omitempty"`
	LeadID     string `json:"leadId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz
// state machine. The sessionId query parameter resumes an existing session;
// without one a fresh session is started.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	snap := h.service.Start(r.Context(), sessionID)
	send <- outboundMessage[any]{Type: "session", Payload: snap}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, sessionID, inbound, send)
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage, send chan<- outboundMessage[any]) {
	ctx := r.Context()
	switch inbound.Type {
	case "selectSegment":
		var payload selectSegmentPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid selectSegment payload")
			return
		}
		snap, err := h.service.SelectSegment(ctx, sessionID, domain.Segment(payload.Segment))
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "session", Payload: snap}

	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid answer payload")
			return
		}
		snap, err := h.service.Answer(ctx, sessionID, payload.Value)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "session", Payload: snap}

	case "previous":
		snap, err := h.service.Previous(ctx, sessionID)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "session", Payload: snap}

	case "submitEmail":
		var payload submitEmailPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid submitEmail payload")
			return
		}
		snap, capture, err := h.service.SubmitEmail(ctx, sessionID, domain.LeadData{
			Email:      payload.Email,
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Company:    payload.Company,
			Role:       payload.Role,
			TeamSize:   payload.TeamSize,
			LeadSource: "data-audit-quiz",
		})
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "session", Payload: snap}
		send <- outboundMessage[any]{Type: "capture", Payload: captureView(capture)}
		h.sendResults(ctx, sessionID, send)

	case "results":
		h.sendResults(ctx, sessionID, send)

	case "restart":
		snap, err := h.service.Restart(ctx, sessionID)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "session", Payload: snap}

	default:
		send <- errorMessage("unsupported message type")
	}
}

func (h *WSHandler) sendResults(ctx context.Context, sessionID string, send chan<- outboundMessage[any]) {
	report, err := h.service.Results(ctx, sessionID)
	if err != nil {
		send <- errorMessage(err.Error())
		return
	}
	send <- outboundMessage[any]{Type: "results", Payload: resultsView(report)}
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

func captureView(capture domain.CaptureResult) capturePayload {
	view := capturePayload{Success: capture.Success, Error: capture.Error}
	if capture.Lead != nil {
		view.LeadID = capture.Lead.ID
		view.SyncStatus = capture.Lead.SyncStatus()
	}
	return view
}

// resultsView attaches recommendation copy and rounds percentages to two
// decimals for display; scoring itself stays unrounded.
func resultsView(report domain.ScoreReport) resultsPayload {
	byCategory := make([]categoryResult, 0, len(report.ByCategory))
	for _, cs := range report.ByCategory {
		cs.Percentage = round2(cs.Percentage)
		byCategory = append(byCategory, categoryResult{
			CategoryScore:  cs,
			Recommendation: content.Recommendation(cs.Tier),
		})
	}
	return resultsPayload{
		Score:         report.Score,
		MaxScore:      report.MaxScore,
		Percentage:    round2(report.Percentage),
		Tier:          report.Tier,
		ByCategory:    byCategory,
		TopPriorities: roundAll(report.TopPriorities),
		Strengths:     roundAll(report.Strengths),
	}
}

func roundAll(scores []domain.CategoryScore) []domain.CategoryScore {
	rounded := make([]domain.CategoryScore, len(scores))
	for i, cs := range scores {
		cs.Percentage = round2(cs.Percentage)
		rounded[i] = cs
	}
	return rounded
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
