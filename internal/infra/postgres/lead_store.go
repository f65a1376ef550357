package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"audit-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// leadRow is the bun model for the leads table.
type leadRow struct {
	bun.BaseModel `bun:"table:leads"`

	ID               string             `bun:"id,pk"`
	Email            string             `bun:"email,notnull"`
	FirstName        string             `bun:"first_name"`
	LastName         string             `bun:"last_name"`
	Company          string             `bun:"company"`
	Role             string             `bun:"role"`
	TeamSize         string             `bun:"team_size"`
	QuizScore        int                `bun:"quiz_score"`
	Segment          string             `bun:"segment"`
	DNAScores        map[string]float64 `bun:"dna_scores,type:jsonb"`
	LeadSource       string             `bun:"lead_source"`
	SubmittedAt      time.Time          `bun:"submitted_at"`
	HubspotSynced    bool               `bun:"hubspot_synced"`
	HubspotSyncError string             `bun:"hubspot_sync_error"`
	HubspotContactID string             `bun:"hubspot_contact_id"`
	CreatedAt        time.Time          `bun:"created_at,nullzero,default:now()"`
	UpdatedAt        time.Time          `bun:"updated_at,nullzero,default:now()"`
}

// LeadStore persists leads in Postgres via bun. The insert is the capture's
// durability boundary; sync bookkeeping is updated afterward by ID only.
type LeadStore struct {
	db *bun.DB
}

func NewLeadStore(db *bun.DB) *LeadStore {
	return &LeadStore{db: db}
}

func (s *LeadStore) Insert(ctx context.Context, lead *domain.Lead) (string, error) {
	row := rowFromLead(lead)
	row.ID = uuid.NewString()
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return "", fmt.Errorf("insert lead: %w", err)
	}
	lead.ID = row.ID
	return row.ID, nil
}

func (s *LeadStore) Get(ctx context.Context, id string) (domain.Lead, error) {
	row := new(leadRow)
	err := s.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Lead{}, domain.ErrLeadNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("load lead: %w", err)
	}
	return leadFromRow(row), nil
}

// UpdateSyncStatus writes only the sync columns of the targeted row, so a
// concurrent writer touching other columns is never clobbered.
func (s *LeadStore) UpdateSyncStatus(ctx context.Context, id string, synced bool, syncErr, contactID string) error {
	res, err := s.db.NewUpdate().
		Model((*leadRow)(nil)).
		Set("hubspot_synced = ?", synced).
		Set("hubspot_sync_error = ?", syncErr).
		Set("hubspot_contact_id = ?", contactID).
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update lead sync status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (s *LeadStore) ListFailed(ctx context.Context) ([]domain.Lead, error) {
	var rows []leadRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("hubspot_synced = ?", false).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list failed syncs: %w", err)
	}
	leads := make([]domain.Lead, 0, len(rows))
	for i := range rows {
		leads = append(leads, leadFromRow(&rows[i]))
	}
	return leads, nil
}

func rowFromLead(lead *domain.Lead) *leadRow {
	return &leadRow{
		ID:               lead.ID,
		Email:            lead.Email,
		FirstName:        lead.FirstName,
		LastName:         lead.LastName,
		Company:          lead.Company,
		Role:             lead.Role,
		TeamSize:         lead.TeamSize,
		QuizScore:        lead.QuizScore,
		Segment:          string(lead.Segment),
		DNAScores:        lead.DNAScores,
		LeadSource:       lead.LeadSource,
		SubmittedAt:      lead.SubmittedAt,
		HubspotSynced:    lead.HubspotSynced,
		HubspotSyncError: lead.HubspotSyncError,
		HubspotContactID: lead.HubspotContactID,
	}
}

func leadFromRow(row *leadRow) domain.Lead {
	return domain.Lead{
		ID:               row.ID,
		Email:            row.Email,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		Company:          row.Company,
		Role:             row.Role,
		TeamSize:         row.TeamSize,
		QuizScore:        row.QuizScore,
		Segment:          domain.Segment(row.Segment),
		DNAScores:        row.DNAScores,
		LeadSource:       row.LeadSource,
		SubmittedAt:      row.SubmittedAt,
		HubspotSynced:    row.HubspotSynced,
		HubspotSyncError: row.HubspotSyncError,
		HubspotContactID: row.HubspotContactID,
	}
}
