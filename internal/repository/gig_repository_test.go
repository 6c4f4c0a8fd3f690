package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/models"
)

var gigRowColumns = []string{"id", "title", "category", "status", "basic_info", "schedule", "availability", "commission",
	"skills", "team", "documentation", "brief_status", "brief_path", "published_at", "created_at", "updated_at"}

func TestGigRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO gigs").WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewGigRepository(db)
	gig := &models.Gig{BasicInfo: models.BasicInfo{Title: "Inbound agents"}}

	require.NoError(t, repo.Create(context.Background(), gig))
	assert.NotEmpty(t, gig.ID)
	assert.Equal(t, models.GigStatusDraft, gig.Status)
	assert.Equal(t, models.BriefStatusNone, gig.BriefStatus)
	assert.False(t, gig.CreatedAt.IsZero())
}

func TestGigRepositoryFindByIDDecodesSections(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(gigRowColumns).AddRow(
		"gig-1", "Inbound agents", "Inbound Sales", "draft",
		[]byte(`{"title":"Inbound agents","category":"Inbound Sales"}`),
		[]byte(`{"schedules":[{"day":"Monday","hours":{"start":"09:00","end":"17:00"}}],"timeZones":["Europe/Paris"]}`),
		[]byte(`{}`),
		[]byte(`{"currency":"EUR"}`),
		[]byte(`{"technical":["Photoshop",{"skill":{"$oid":"a1"},"level":3,"details":"x"}],"languages":[{"language":"English","proficiency":"B2","iso639_1":""}]}`),
		[]byte(`{"size":4}`),
		[]byte(`{}`),
		"none", nil, nil, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM gigs WHERE id = \\$1").WithArgs("gig-1").WillReturnRows(rows)

	repo := NewGigRepository(db)
	gig, err := repo.FindByID(context.Background(), "gig-1")

	require.NoError(t, err)
	assert.Equal(t, "Inbound agents", gig.BasicInfo.Title)
	require.Len(t, gig.Schedule.Schedules, 1)
	assert.Equal(t, models.Monday, gig.Schedule.Schedules[0].Day)
	require.Len(t, gig.Skills.Technical, 2)
	assert.Equal(t, models.BareName, gig.Skills.Technical[0].Kind)
	assert.Equal(t, models.CanonicalRef, gig.Skills.Technical[1].Kind)
	assert.Equal(t, "EUR", gig.Commission.Currency)
	assert.Equal(t, 4, gig.Team.Size)
	assert.Nil(t, gig.PublishedAt)
}

func TestGigRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM gigs WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := NewGigRepository(db).FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGigRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT id, title, category, status, created_at, updated_at FROM gigs WHERE").
		WithArgs("draft", "%sales%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category", "status", "created_at", "updated_at"}).
			AddRow("gig-1", "Outbound", "Outbound Sales", "draft", now, now))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("draft", "%sales%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	gigs, total, err := NewGigRepository(db).List(context.Background(), models.GigFilter{Status: "draft", Search: "Sales"})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, gigs, 1)
	assert.Equal(t, models.GigStatusDraft, gigs[0].Status)
}

func TestGigRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE gigs SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewGigRepository(db).Update(context.Background(), &models.Gig{ID: "gone", Status: models.GigStatusDraft})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGigRepositoryUpdateBriefAndDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE gigs SET brief_status").
		WithArgs("ready", "briefs/gig-1.pdf", sqlmock.AnyArg(), "gig-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM gigs").WithArgs("gig-1").WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewGigRepository(db)
	require.NoError(t, repo.UpdateBrief(context.Background(), "gig-1", models.BriefStatusReady, "briefs/gig-1.pdf"))
	require.NoError(t, repo.Delete(context.Background(), "gig-1"))
}

func TestAssetRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO gig_assets").
		WithArgs(sqlmock.AnyArg(), "gig-1", "product", "deck.pdf", "assets/x.pdf", "application/pdf", int64(2048), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM gig_assets WHERE id").
		WithArgs("asset-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "gig_id", "kind", "filename", "file_path", "mime_type", "size_bytes", "created_at"}).
			AddRow("asset-1", "gig-1", "product", "deck.pdf", "assets/x.pdf", "application/pdf", 2048, time.Now()))

	repo := NewAssetRepository(db)
	asset := &models.GigAsset{GigID: "gig-1", Kind: models.DocumentKindProduct, Filename: "deck.pdf", FilePath: "assets/x.pdf", MimeType: "application/pdf", SizeBytes: 2048}
	require.NoError(t, repo.Create(context.Background(), asset))
	assert.NotEmpty(t, asset.ID)

	found, err := repo.FindByID(context.Background(), "asset-1")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentKindProduct, found.Kind)
}

func TestAssetRepositoryListAndDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM gig_assets WHERE gig_id = \\$1 ORDER BY created_at DESC").
		WithArgs("gig-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "gig_id", "kind", "filename", "file_path", "mime_type", "size_bytes", "created_at"}).
			AddRow("asset-2", "gig-1", "training", "onboarding.pdf", "assets/y.pdf", "application/pdf", 10, time.Now()).
			AddRow("asset-1", "gig-1", "product", "deck.pdf", "assets/x.pdf", "application/pdf", 20, time.Now()))
	mock.ExpectExec("DELETE FROM gig_assets").WithArgs("asset-1").WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAssetRepository(db)
	assets, err := repo.ListByGig(context.Background(), "gig-1")
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "asset-2", assets[0].ID)

	require.NoError(t, repo.Delete(context.Background(), "asset-1"))
}
