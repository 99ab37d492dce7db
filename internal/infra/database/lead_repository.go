package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/xavierca1/residence-leads/internal/entity"
)

const (
	pgCheckViolation   = "23514"
	pgInvalidTextInput = "22P02"
)

var leadColumns = []string{
	"id", "type", "apartment_slug", "apartment_title",
	"first_name", "last_name", "email", "phone", "message",
	"preferred_dates", "guest_count", "share_count",
	"gdpr_consent", "terms_accepted", "marketing_consent", "language",
	"source_url", "ip_address", "user_agent",
	"status", "notes", "created_at", "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Insert(ctx context.Context, in entity.LeadInput) (*entity.Lead, error) {
	lead := &entity.Lead{
		ID:        uuid.New().String(),
		LeadInput: in,
	}

	query, args, err := psql.Insert("leads").
		Columns(
			"id", "type", "apartment_slug", "apartment_title",
			"first_name", "last_name", "email", "phone", "message",
			"preferred_dates", "guest_count", "share_count",
			"gdpr_consent", "terms_accepted", "marketing_consent", "language",
			"source_url", "ip_address", "user_agent",
		).
		Values(
			lead.ID, string(in.Type), nullString(in.ApartmentSlug), nullString(in.ApartmentTitle),
			in.FirstName, in.LastName, in.Email, nullString(in.Phone), nullString(in.Message),
			nullString(in.PreferredDates), in.GuestCount, in.ShareCount,
			in.GDPRConsent, in.TermsAccepted, in.MarketingConsent, in.Language,
			nullString(in.SourceURL), nullString(in.IPAddress), nullString(in.UserAgent),
		).
		Suffix("RETURNING status, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var status string
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&status, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	lead.Status = entity.LeadStatus(status)

	return lead, nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrLeadNotFound
	}

	query, args, err := psql.Select(leadColumns...).
		From("leads").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead %s: %w", id, err)
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter, limit, offset int) ([]entity.Lead, int, error) {
	where := sq.And{}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": string(filter.Status)})
	}
	if filter.Type != "" {
		where = append(where, sq.Eq{"type": string(filter.Type)})
	}

	countBuilder := psql.Select("COUNT(*)").From("leads")
	listBuilder := psql.Select(leadColumns...).From("leads")
	if len(where) > 0 {
		countBuilder = countBuilder.Where(where)
		listBuilder = listBuilder.Where(where)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query, args, err := listBuilder.
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, total, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, update entity.LeadUpdate) error {
	if update.Status != nil && !update.Status.Valid() {
		return entity.ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrLeadNotFound
	}

	// clock_timestamp so two updates in one transaction still advance updated_at
	b := psql.Update("leads").
		Set("updated_at", sq.Expr("clock_timestamp()")).
		Where(sq.Eq{"id": id})
	if update.Status != nil {
		b = b.Set("status", string(*update.Status))
	}
	if update.Notes != nil {
		b = b.Set("notes", *update.Notes)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		switch pgErrorCode(err) {
		case pgCheckViolation, pgInvalidTextInput:
			return entity.ErrInvalidStatus
		}
		return fmt.Errorf("update lead %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) CountsByStatus(ctx context.Context) (map[entity.LeadStatus]int, error) {
	query, args, err := psql.Select("status", "COUNT(*)").From("leads").GroupBy("status").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build counts: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.LeadStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[entity.LeadStatus(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead                               entity.Lead
		leadType, status                   string
		slug, title, phone, message, dates sql.NullString
		sourceURL, ip, userAgent, notes    sql.NullString
		guests, shares                     sql.NullInt64
	)

	err := row.Scan(
		&lead.ID, &leadType, &slug, &title,
		&lead.FirstName, &lead.LastName, &lead.Email, &phone, &message,
		&dates, &guests, &shares,
		&lead.GDPRConsent, &lead.TermsAccepted, &lead.MarketingConsent, &lead.Language,
		&sourceURL, &ip, &userAgent,
		&status, &notes, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Type = entity.LeadType(leadType)
	lead.Status = entity.LeadStatus(status)
	lead.ApartmentSlug = slug.String
	lead.ApartmentTitle = title.String
	lead.Phone = phone.String
	lead.Message = message.String
	lead.PreferredDates = dates.String
	lead.SourceURL = sourceURL.String
	lead.IPAddress = ip.String
	lead.UserAgent = userAgent.String
	lead.Notes = notes.String
	lead.GuestCount = nullIntPtr(guests)
	lead.ShareCount = nullIntPtr(shares)

	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// pgErrorCode extracts the SQLSTATE from either driver.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
