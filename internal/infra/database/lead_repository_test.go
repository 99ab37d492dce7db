package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/xavierca1/residence-leads/internal/entity"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// setupTestDB starts one Postgres container per test run and applies the
// migrations. Set LEADS_INTEGRATION=1 to enable.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if os.Getenv("LEADS_INTEGRATION") == "" {
		t.Skip("LEADS_INTEGRATION not set")
	}

	containerOnce.Do(func() {
		containerDSN, containerErr = startPostgres()
	})
	require.NoError(t, containerErr)

	db, err := NewDBConnection("pgx", containerDSN, PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("TRUNCATE leads")
	require.NoError(t, err)
	return db
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "leads",
				"POSTGRES_PASSWORD": "leads",
				"POSTGRES_DB":       "leads",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", err
	}

	dsn := fmt.Sprintf("postgres://leads:leads@%s:%s/leads?sslmode=disable", host, port.Port())

	db, err := NewDBConnection("postgres", dsn, PoolConfig{})
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		return "", err
	}
	return dsn, nil
}

func validInput() entity.LeadInput {
	guests := 4
	return entity.LeadInput{
		Type:           entity.LeadTypeRent,
		ApartmentSlug:  "apartment-a12",
		FirstName:      "Jan",
		LastName:       "Novák",
		Email:          "jan@example.com",
		PreferredDates: "1.-8. 2.",
		GuestCount:     &guests,
		GDPRConsent:    true,
		TermsAccepted:  true,
		Language:       "cs",
		IPAddress:      "203.0.113.7",
	}
}

func TestLeadRepositoryInsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()

	lead, err := repo.Insert(ctx, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)

	got, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "apartment-a12", got.ApartmentSlug)
	require.NotNil(t, got.GuestCount)
	assert.Equal(t, 4, *got.GuestCount)
	assert.Nil(t, got.ShareCount)
	assert.Empty(t, got.Phone)
	assert.Equal(t, "203.0.113.7", got.IPAddress)
}

func TestLeadRepositoryGetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepository(db)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepositoryUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()

	lead, err := repo.Insert(ctx, validInput())
	require.NoError(t, err)

	closed := entity.LeadStatusClosed
	require.NoError(t, repo.UpdateStatus(ctx, lead.ID, entity.LeadUpdate{Status: &closed}))
	first, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, lead.ID, entity.LeadUpdate{Status: &closed}))
	second, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.LeadStatusClosed, second.Status)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	archived := entity.LeadStatus("archived")
	assert.ErrorIs(t, repo.UpdateStatus(ctx, lead.ID, entity.LeadUpdate{Status: &archived}), entity.ErrInvalidStatus)

	spam := entity.LeadStatusSpam
	err = repo.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", entity.LeadUpdate{Status: &spam})
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepositoryListAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Insert(ctx, validInput())
		require.NoError(t, err)
	}
	sale := validInput()
	sale.Type = entity.LeadTypeSale
	saleLead, err := repo.Insert(ctx, sale)
	require.NoError(t, err)

	spam := entity.LeadStatusSpam
	require.NoError(t, repo.UpdateStatus(ctx, saleLead.ID, entity.LeadUpdate{Status: &spam}))

	leads, total, err := repo.List(ctx, entity.LeadFilter{Type: entity.LeadTypeRent}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, leads, 2)

	leads, total, err = repo.List(ctx, entity.LeadFilter{Status: entity.LeadStatusSpam}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, saleLead.ID, leads[0].ID)

	counts, err := repo.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[entity.LeadStatusNew])
	assert.Equal(t, 1, counts[entity.LeadStatusSpam])
}

func TestPgErrorCode(t *testing.T) {
	assert.Equal(t, "23514", pgErrorCode(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23514"})))
	assert.Equal(t, "22P02", pgErrorCode(&pq.Error{Code: "22P02"}))
	assert.Equal(t, "", pgErrorCode(sql.ErrNoRows))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullString(""))
	require.NotNil(t, nullString("x"))
	assert.Equal(t, "x", *nullString("x"))

	assert.Nil(t, nullIntPtr(sql.NullInt64{}))
	assert.Equal(t, 7, *nullIntPtr(sql.NullInt64{Int64: 7, Valid: true}))
}
