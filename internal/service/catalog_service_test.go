package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	"github.com/harx/gig-wizard-api/internal/repository"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

type catalogRepoStub struct {
	mu           sync.Mutex
	skills       map[models.SkillCategory][]models.CatalogSkill
	languages    []models.CatalogLanguage
	skillErr     error
	languageErr  error
	createErr    error
	skillQueries int
	created      []models.CatalogSkill
}

func (s *catalogRepoStub) ListSkills(_ context.Context, category models.SkillCategory) ([]models.CatalogSkill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skillQueries++
	if s.skillErr != nil {
		return nil, s.skillErr
	}
	return s.skills[category], nil
}

func (s *catalogRepoStub) CreateSkill(_ context.Context, skill *models.CatalogSkill) error {
	if s.createErr != nil {
		return s.createErr
	}
	skill.ID = "6610a00000000000000000ff"
	s.created = append(s.created, *skill)
	return nil
}

func (s *catalogRepoStub) ListLanguages(context.Context) ([]models.CatalogLanguage, error) {
	return s.languages, s.languageErr
}

func (s *catalogRepoStub) ListTimezones(context.Context) ([]models.Timezone, error) {
	return []models.Timezone{{ID: "tz", ZoneName: "Europe/Paris"}}, nil
}

func (s *catalogRepoStub) ListCurrencies(context.Context) ([]models.Currency, error) {
	return nil, nil
}

func (s *catalogRepoStub) ListCompanies(context.Context) ([]models.Company, error) {
	return nil, errors.New("companies table missing")
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.items {
		if key == pattern || (strings.HasSuffix(pattern, "*") && strings.HasPrefix(key, prefix)) {
			delete(m.items, key)
		}
	}
	return nil
}

func newCatalogStub() *catalogRepoStub {
	return &catalogRepoStub{
		skills: map[models.SkillCategory][]models.CatalogSkill{
			models.SkillCategoryTechnical: {
				{ID: "a1", Name: "Adobe Illustrator", Category: models.SkillCategoryTechnical},
				{ID: "a2", Name: "Adobe Photoshop", Category: models.SkillCategoryTechnical},
			},
			models.SkillCategorySoft: {{ID: "s1", Name: "Empathy", Category: models.SkillCategorySoft}},
		},
		languages: []models.CatalogLanguage{{ID: "64b7f0c2a1b2c3d4e5f60001", Name: "English", Code: "en"}},
	}
}

func TestCatalogServiceSnapshotLoadsEverything(t *testing.T) {
	svc := NewCatalogService(newCatalogStub(), nil, NewMetricsService(), nil, nil, time.Minute)

	snapshot := svc.Snapshot(context.Background())

	assert.True(t, snapshot.Loaded())
	assert.Len(t, snapshot.Skill(models.SkillCategoryTechnical).Items, 2)
	assert.True(t, snapshot.Skill(models.SkillCategoryProfessional).Loaded)
	assert.Empty(t, snapshot.Skill(models.SkillCategoryProfessional).Items)
	assert.Equal(t, "English", snapshot.Languages.Items[0].Name)
}

func TestCatalogServiceSnapshotDegradesOnFailure(t *testing.T) {
	repo := newCatalogStub()
	repo.languageErr = errors.New("connection refused")
	svc := NewCatalogService(repo, nil, nil, nil, nil, time.Minute)

	snapshot := svc.Snapshot(context.Background())

	assert.False(t, snapshot.Languages.Loaded)
	assert.True(t, snapshot.Skill(models.SkillCategoryTechnical).Loaded)
	assert.False(t, snapshot.Loaded())
}

func TestCatalogServiceCachesLists(t *testing.T) {
	repo := newCatalogStub()
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	svc := NewCatalogService(repo, cache, nil, nil, nil, time.Minute)
	ctx := context.Background()

	_, hit, err := svc.Skills(ctx, models.SkillCategoryTechnical)
	require.NoError(t, err)
	assert.False(t, hit)

	items, hit, err := svc.Skills(ctx, models.SkillCategoryTechnical)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, repo.skillQueries)

	_, err = svc.CreateSkill(ctx, dto.CreateCatalogSkillRequest{Name: " Figma ", Category: models.SkillCategoryTechnical})
	require.NoError(t, err)
	_, hit, err = svc.Skills(ctx, models.SkillCategoryTechnical)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.skillQueries)
	assert.Equal(t, "Figma", repo.created[0].Name)
}

func TestCatalogServiceCreateSkillErrors(t *testing.T) {
	repo := newCatalogStub()
	svc := NewCatalogService(repo, nil, nil, nil, nil, time.Minute)
	ctx := context.Background()

	_, err := svc.CreateSkill(ctx, dto.CreateCatalogSkillRequest{Name: "Figma", Category: "design"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	repo.createErr = repository.ErrDuplicateCatalogEntry
	_, err = svc.CreateSkill(ctx, dto.CreateCatalogSkillRequest{Name: "Figma", Category: models.SkillCategoryTechnical})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestCatalogServiceLookups(t *testing.T) {
	svc := NewCatalogService(newCatalogStub(), nil, nil, nil, nil, time.Minute)
	ctx := context.Background()

	_, _, err := svc.Skills(ctx, "design")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	zones, _, err := svc.Timezones(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", zones[0].ZoneName)

	currencies, _, err := svc.Currencies(ctx)
	require.NoError(t, err)
	assert.NotNil(t, currencies)

	_, _, err = svc.Companies(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}
