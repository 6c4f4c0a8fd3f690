package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
	"github.com/harx/gig-wizard-api/pkg/export"
	"github.com/harx/gig-wizard-api/pkg/jobs"
	"github.com/harx/gig-wizard-api/pkg/storage"
)

const briefJobTimeout = 30 * time.Second

// BriefSource loads gigs and records brief outcomes.
type BriefSource interface {
	Get(ctx context.Context, id string) (*models.Gig, models.Catalogs, error)
	RecordBrief(ctx context.Context, id string, status models.BriefStatus, path string) error
}

// FileStore persists rendered files.
type FileStore interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
}

// BriefConfig tunes the brief worker pool.
type BriefConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
	// BasePath prefixes generated download URLs, e.g. "/api/v1".
	BasePath string
}

// BriefService renders PDF briefs of published gigs on a background queue.
type BriefService struct {
	gigs    BriefSource
	files   FileStore
	signer  *storage.SignedURLSigner
	pdf     *export.PDFExporter
	queue   *jobs.Queue[string]
	metrics *MetricsService
	logger  *zap.Logger
	cfg     BriefConfig
	now     func() time.Time
}

// NewBriefService constructs the service. Start must be called before jobs are processed.
func NewBriefService(gigs BriefSource, files FileStore, signer *storage.SignedURLSigner, metrics *MetricsService, cfg BriefConfig, logger *zap.Logger) *BriefService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BriefService{
		gigs:    gigs,
		files:   files,
		signer:  signer,
		pdf:     export.NewPDFExporter(),
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
	s.queue = jobs.NewQueue("briefs", s.handle, s.exhausted, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the workers.
func (s *BriefService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for in-flight briefs to finish.
func (s *BriefService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules brief generation for a gig.
func (s *BriefService) Enqueue(gigID string) error {
	jobID, err := s.queue.Enqueue(gigID)
	if err != nil {
		return err
	}
	s.logger.Debug("brief queued", zap.String("gig_id", gigID), zap.String("job_id", jobID))
	return nil
}

// Regenerate queues a fresh brief for a published gig.
func (s *BriefService) Regenerate(ctx context.Context, gigID string) (*dto.BriefStatusResponse, error) {
	gig, _, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.Status != models.GigStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "briefs are only generated for published gigs")
	}
	if err := s.gigs.RecordBrief(ctx, gigID, models.BriefStatusQueued, gig.BriefPath); err != nil {
		return nil, err
	}
	if err := s.Enqueue(gigID); err != nil {
		_ = s.gigs.RecordBrief(ctx, gigID, models.BriefStatusFailed, gig.BriefPath)
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "brief queue unavailable")
	}
	return &dto.BriefStatusResponse{GigID: gigID, Status: string(models.BriefStatusQueued)}, nil
}

// Status reports the brief state and signs a download link when the brief is ready.
func (s *BriefService) Status(ctx context.Context, gigID string) (*dto.BriefStatusResponse, error) {
	gig, _, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return nil, err
	}
	resp := &dto.BriefStatusResponse{GigID: gigID, Status: string(gig.BriefStatus)}
	if gig.BriefStatus != models.BriefStatusReady || gig.BriefPath == "" {
		return resp, nil
	}
	token, expiresAt, err := s.signer.Generate(briefSubject(gigID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign brief link")
	}
	resp.Download = &dto.DownloadLink{
		URL:       fmt.Sprintf("%s/briefs/%s/download?token=%s", strings.TrimRight(s.cfg.BasePath, "/"), url.PathEscape(gigID), url.QueryEscape(token)),
		ExpiresAt: expiresAt,
	}
	return resp, nil
}

// Open verifies a download token and opens the stored brief.
func (s *BriefService) Open(ctx context.Context, gigID, token string) (*os.File, string, error) {
	if err := verifyToken(s.signer, token, briefSubject(gigID)); err != nil {
		return nil, "", err
	}
	gig, _, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return nil, "", err
	}
	if gig.BriefStatus != models.BriefStatusReady || gig.BriefPath == "" {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "brief not available")
	}
	file, err := s.files.Open(gig.BriefPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "brief file missing")
	}
	return file, briefFilename(gig), nil
}

func (s *BriefService) handle(ctx context.Context, job jobs.Job[string]) error {
	ctx, cancel := context.WithTimeout(ctx, briefJobTimeout)
	defer cancel()

	gig, catalogs, err := s.gigs.Get(ctx, job.Payload)
	if err != nil {
		return err
	}
	if gig.Status != models.GigStatusPublished {
		s.logger.Warn("skipping brief for unpublished gig", zap.String("gig_id", gig.ID))
		return nil
	}
	data, err := s.pdf.RenderBrief(BuildBrief(gig, catalogs, s.now()))
	if err != nil {
		return err
	}
	path, err := s.files.Save(gig.ID+".pdf", data)
	if err != nil {
		return err
	}
	if err := s.gigs.RecordBrief(ctx, gig.ID, models.BriefStatusReady, path); err != nil {
		return err
	}
	s.metrics.RecordBriefJob(true)
	s.logger.Info("brief generated", zap.String("gig_id", gig.ID), zap.Int("bytes", len(data)), zap.Int("attempt", job.Attempt+1))
	return nil
}

func (s *BriefService) exhausted(job jobs.Job[string], err error) {
	s.metrics.RecordBriefJob(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if recordErr := s.gigs.RecordBrief(ctx, job.Payload, models.BriefStatusFailed, ""); recordErr != nil {
		s.logger.Error("failed to record brief failure", zap.String("gig_id", job.Payload), zap.Error(recordErr))
	}
}

func briefSubject(gigID string) string {
	return "brief:" + gigID
}

func briefFilename(gig *models.Gig) string {
	name := strings.TrimSpace(gig.BasicInfo.Title)
	if name == "" {
		name = gig.ID
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	return name + "-brief.pdf"
}

func verifyToken(signer *storage.SignedURLSigner, token, subject string) error {
	if token == "" {
		return appErrors.Clone(appErrors.ErrForbidden, "download token required")
	}
	if err := signer.Verify(token, subject); err != nil {
		return appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download link")
	}
	return nil
}

// BuildBrief lays out a gig as a printable brief. Skills are shown by catalog name.
func BuildBrief(gig *models.Gig, catalogs models.Catalogs, generatedAt time.Time) export.BriefDocument {
	info := gig.BasicInfo
	seniority := info.Seniority.Level
	if info.Seniority.YearsExperience > 0 {
		seniority = strings.TrimSpace(fmt.Sprintf("%s (%d+ years)", seniority, info.Seniority.YearsExperience))
	}

	schedule := export.NewDataset("Days", "Hours")
	for _, group := range DisplayGroups(GroupSchedules(gig.Schedule.Schedules)) {
		schedule.AddRow(strings.Join(group.Days, ", "), group.Hours.Start+" - "+group.Hours.End)
	}

	commission := gig.Commission
	skills := export.NewDataset("Category", "Skill", "Level")
	view := DescribeGigSkills(gig.Skills, catalogs)
	for _, group := range []struct {
		label string
		items []models.SkillView
	}{
		{"Professional", view.Professional},
		{"Technical", view.Technical},
		{"Soft", view.Soft},
	} {
		for _, item := range group.items {
			skills.AddRow(group.label, item.Name, strconv.Itoa(item.Level))
		}
	}
	languages := export.NewDataset("Language", "Proficiency")
	for _, item := range view.Languages {
		languages.AddRow(item.Name, item.Proficiency)
	}

	team := export.NewDataset("Role", "Count", "Seniority")
	for _, role := range gig.Team.Structure {
		team.AddRow(role.RoleID, strconv.Itoa(role.Count), role.SeniorityLevel)
	}

	minimum := gig.Schedule.MinimumHours
	return export.BriefDocument{
		Title:       info.Title,
		Subtitle:    info.Category,
		GeneratedAt: generatedAt,
		Sections: []export.BriefSection{
			{Heading: "Overview", Fields: []export.BriefField{
				{Label: "Seniority", Value: seniority},
				{Label: "Destination", Value: info.DestinationZone},
				{Label: "Description", Value: info.Description},
			}},
			{Heading: "Schedule", Fields: []export.BriefField{
				{Label: "Time zones", Value: strings.Join(gig.Schedule.TimeZones, ", ")},
				{Label: "Flexibility", Value: strings.Join(gig.Schedule.Flexibility, ", ")},
				{Label: "Minimum hours", Value: fmt.Sprintf("%d daily / %d weekly / %d monthly", minimum.Daily, minimum.Weekly, minimum.Monthly)},
			}, Table: &schedule},
			{Heading: "Commission", Fields: []export.BriefField{
				{Label: "Base", Value: amountLine(commission.Base, commission.BaseAmount, commission.Currency)},
				{Label: "Bonus", Value: amountLine(commission.Bonus, commission.BonusAmount, commission.Currency)},
				{Label: "Per transaction", Value: amountLine(commission.TransactionCommission.Type, commission.TransactionCommission.Amount, commission.Currency)},
				{Label: "Minimum volume", Value: volumeLine(commission.MinimumVolume)},
			}},
			{Heading: "Skills", Table: &skills},
			{Heading: "Languages", Table: &languages},
			{Heading: "Team", Fields: []export.BriefField{
				{Label: "Size", Value: strconv.Itoa(gig.Team.Size)},
				{Label: "Territories", Value: strings.Join(gig.Team.Territories, ", ")},
			}, Table: &team},
		},
	}
}

func amountLine(label string, amount float64, currency string) string {
	if amount == 0 {
		return label
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", label, strconv.FormatFloat(amount, 'f', -1, 64), currency))
}

func volumeLine(volume models.MinimumVolume) string {
	if volume.Amount == 0 {
		return ""
	}
	line := strconv.FormatFloat(volume.Amount, 'f', -1, 64)
	if volume.Unit != "" {
		line += " " + volume.Unit
	}
	if volume.Period != "" {
		line += " per " + volume.Period
	}
	return line
}
