package service

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
	"github.com/harx/gig-wizard-api/pkg/storage"
)

type briefSourceStub struct {
	mu       sync.Mutex
	gig      *models.Gig
	catalogs models.Catalogs
	getErr   error
	recorded chan models.BriefStatus
}

func (s *briefSourceStub) Get(_ context.Context, id string) (*models.Gig, models.Catalogs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, models.Catalogs{}, s.getErr
	}
	if s.gig == nil || s.gig.ID != id {
		return nil, models.Catalogs{}, appErrors.Clone(appErrors.ErrNotFound, "gig not found")
	}
	return cloneGig(s.gig), s.catalogs, nil
}

func (s *briefSourceStub) RecordBrief(_ context.Context, id string, status models.BriefStatus, path string) error {
	s.mu.Lock()
	if s.gig != nil && s.gig.ID == id {
		s.gig.BriefStatus = status
		s.gig.BriefPath = path
	}
	s.mu.Unlock()
	if s.recorded != nil {
		s.recorded <- status
	}
	return nil
}

func publishedGig() *models.Gig {
	gig := draftWithLegacySkills()
	gig.ID = "gig-pub"
	gig.Status = models.GigStatusPublished
	gig.BriefStatus = models.BriefStatusQueued
	gig.Skills.Technical = []models.SkillInput{models.CanonicalSkillRef("a1", 3, "")}
	gig.Skills.Languages = []models.LanguageEntry{{Language: "64b7f0c2a1b2c3d4e5f60001", Proficiency: models.ProficiencyC1}}
	gig.Commission = models.Commission{Base: "Fixed", BaseAmount: 1200, Currency: "EUR"}
	gig.Team = models.TeamSection{Size: 3, Structure: []models.TeamRole{{RoleID: "Agent", Count: 3}}}
	return gig
}

func newTestBriefService(t *testing.T, source *briefSourceStub) (*BriefService, *storage.SignedURLSigner) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("brief-secret", time.Minute)
	svc := NewBriefService(source, files, signer, NewMetricsService(), BriefConfig{
		Workers:    1,
		Retries:    1,
		RetryDelay: 5 * time.Millisecond,
		BasePath:   "/api/v1",
	}, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc, signer
}

func waitForBrief(t *testing.T, recorded chan models.BriefStatus) models.BriefStatus {
	t.Helper()
	select {
	case status := <-recorded:
		return status
	case <-time.After(5 * time.Second):
		t.Fatal("brief was never recorded")
		return ""
	}
}

func TestBriefServiceGeneratesAndServesBrief(t *testing.T) {
	source := &briefSourceStub{gig: publishedGig(), catalogs: loadedCatalogs().catalogs, recorded: make(chan models.BriefStatus, 4)}
	svc, _ := newTestBriefService(t, source)
	ctx := context.Background()

	require.NoError(t, svc.Enqueue("gig-pub"))
	assert.Equal(t, models.BriefStatusReady, waitForBrief(t, source.recorded))

	status, err := svc.Status(ctx, "gig-pub")
	require.NoError(t, err)
	assert.Equal(t, string(models.BriefStatusReady), status.Status)
	require.NotNil(t, status.Download)
	assert.True(t, strings.HasPrefix(status.Download.URL, "/api/v1/briefs/gig-pub/download?token="))

	link, err := url.Parse(status.Download.URL)
	require.NoError(t, err)
	file, filename, err := svc.Open(ctx, "gig-pub", link.Query().Get("token"))
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "Design-support-brief.pdf", filename)

	head := make([]byte, 5)
	_, err = io.ReadFull(file, head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))
}

func TestBriefServiceOpenRejectsBadToken(t *testing.T) {
	source := &briefSourceStub{gig: publishedGig()}
	svc, signer := newTestBriefService(t, source)

	_, _, err := svc.Open(context.Background(), "gig-pub", "")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	token, _, err := signer.Generate(briefSubject("other-gig"))
	require.NoError(t, err)
	_, _, err = svc.Open(context.Background(), "gig-pub", token)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestBriefServiceRecordsFailureAfterRetries(t *testing.T) {
	source := &briefSourceStub{gig: publishedGig(), getErr: errors.New("database down"), recorded: make(chan models.BriefStatus, 4)}
	svc, _ := newTestBriefService(t, source)

	require.NoError(t, svc.Enqueue("gig-pub"))
	assert.Equal(t, models.BriefStatusFailed, waitForBrief(t, source.recorded))
}

func TestBriefServiceStatusWithoutBrief(t *testing.T) {
	gig := publishedGig()
	gig.BriefStatus = models.BriefStatusQueued
	svc, _ := newTestBriefService(t, &briefSourceStub{gig: gig})

	status, err := svc.Status(context.Background(), "gig-pub")
	require.NoError(t, err)
	assert.Equal(t, string(models.BriefStatusQueued), status.Status)
	assert.Nil(t, status.Download)
}

func TestBriefServiceRegenerateRequiresPublishedGig(t *testing.T) {
	gig := publishedGig()
	gig.Status = models.GigStatusDraft
	svc, _ := newTestBriefService(t, &briefSourceStub{gig: gig})

	_, err := svc.Regenerate(context.Background(), "gig-pub")
	assert.True(t, errors.Is(err, appErrors.ErrPreconditionFailed))
}

func TestBuildBriefResolvesSkillNames(t *testing.T) {
	gig := publishedGig()
	gig.Schedule.Schedules = []models.DaySchedule{
		day(models.Tuesday, "09:00", "17:00"),
		day(models.Monday, "09:00", "17:00"),
		day(models.Saturday, "10:00", "14:00"),
	}

	doc := BuildBrief(gig, loadedCatalogs().catalogs, time.Now())

	assert.Equal(t, "Design support", doc.Title)
	sections := map[string]int{}
	for i, section := range doc.Sections {
		sections[section.Heading] = i
	}
	schedule := doc.Sections[sections["Schedule"]].Table
	require.NotNil(t, schedule)
	assert.Equal(t, [][]string{{"Monday, Tuesday", "09:00 - 17:00"}, {"Saturday", "10:00 - 14:00"}}, schedule.Rows)

	skills := doc.Sections[sections["Skills"]].Table
	require.NotNil(t, skills)
	assert.Equal(t, [][]string{{"Technical", "Adobe Illustrator", "3"}}, skills.Rows)

	languages := doc.Sections[sections["Languages"]].Table
	assert.Equal(t, [][]string{{"English", "C1"}}, languages.Rows)

	commission := doc.Sections[sections["Commission"]].Fields
	assert.Equal(t, "Fixed 1200 EUR", commission[0].Value)
}
