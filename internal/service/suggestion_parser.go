package service

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/harx/gig-wizard-api/internal/models"
)

//go:embed data/parser_keywords.yaml
var parserKeywordsYAML []byte

const maxSuggestedTitle = 120

// ParserKeywords is the dictionary driving the heuristic parser.
type ParserKeywords struct {
	Categories map[string][]string               `yaml:"categories"`
	Seniority  map[string][]string               `yaml:"seniority"`
	Skills     map[models.SkillCategory][]string `yaml:"skills"`
	Languages  map[string][]string               `yaml:"languages"`
	Days       map[string][]string               `yaml:"days"`
	Currencies map[string][]string               `yaml:"currencies"`
}

var (
	hoursPattern     = regexp.MustCompile(`(?i)\b(\d{1,2})(?:[:h]([0-5]\d))?\s*(am|pm)?\s*(?:-|–|to|until)\s*(\d{1,2})(?:[:h]([0-5]\d))?\s*(am|pm)?`)
	yearsPattern     = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`)
	teamSizePattern  = regexp.MustCompile(`(?i)\b(\d{1,4})\s+(?:agents|reps|representatives|people|sellers|advisors|callers)\b`)
	minimumPattern   = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:hours?|hrs?|h)\s*(?:per|a|/)\s*(day|week|month)\b`)
	timeZonePattern  = regexp.MustCompile(`\b(?:Africa|America|Asia|Atlantic|Australia|Europe|Indian|Pacific)/[A-Z][A-Za-z_]+\b`)
	weekdaysPattern  = regexp.MustCompile(`(?i)\bweek\s?days\b`)
	weekendsPattern  = regexp.MustCompile(`(?i)\bweekends?\b`)
	sentenceBoundary = ".;!?\n"
)

// keywordHit is the first place a dictionary value was found.
type keywordHit struct {
	Value string
	Start int
	End   int
}

type keywordEntry struct {
	value   string
	pattern *regexp.Regexp
}

// keywordMatcher finds dictionary values in text on word boundaries, case-insensitively.
type keywordMatcher struct {
	entries []keywordEntry
}

func newKeywordMatcher(dictionary map[string][]string) (*keywordMatcher, error) {
	values := make([]string, 0, len(dictionary))
	for value := range dictionary {
		values = append(values, value)
	}
	sort.Strings(values)

	matcher := &keywordMatcher{}
	for _, value := range values {
		keywords := dictionary[value]
		if len(keywords) == 0 {
			keywords = []string{value}
		}
		pattern, err := regexp.Compile(`(?i)(?:^|[^\p{L}\p{N}])(` + alternation(keywords) + `)(?:$|[^\p{L}\p{N}])`)
		if err != nil {
			return nil, fmt.Errorf("compile keywords for %q: %w", value, err)
		}
		matcher.entries = append(matcher.entries, keywordEntry{value: value, pattern: pattern})
	}
	return matcher, nil
}

// all returns every value present in text ordered by first occurrence.
func (m *keywordMatcher) all(text string) []keywordHit {
	var hits []keywordHit
	for _, entry := range m.entries {
		loc := entry.pattern.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		hits = append(hits, keywordHit{Value: entry.value, Start: loc[2], End: loc[3]})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Start != hits[j].Start {
			return hits[i].Start < hits[j].Start
		}
		return hits[i].End-hits[i].Start > hits[j].End-hits[j].Start
	})
	return hits
}

// first returns the value found earliest in text.
func (m *keywordMatcher) first(text string) (string, bool) {
	hits := m.all(text)
	if len(hits) == 0 {
		return "", false
	}
	return hits[0].Value, true
}

// alternation builds a regexp alternation that prefers longer keywords.
func alternation(keywords []string) string {
	sorted := append([]string(nil), keywords...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, keyword := range sorted {
		quoted[i] = regexp.QuoteMeta(keyword)
	}
	return strings.Join(quoted, "|")
}

// HeuristicParser reads a job description with keyword dictionaries and patterns. It never fails;
// anything it cannot find is left empty.
type HeuristicParser struct {
	categories *keywordMatcher
	seniority  *keywordMatcher
	skills     map[models.SkillCategory]*keywordMatcher
	languages  *keywordMatcher
	days       *keywordMatcher
	currencies *keywordMatcher
	dayRange   *regexp.Regexp
	dayLookup  map[string]string
	money      []*regexp.Regexp
	currency   map[string]string
}

// LoadHeuristicParser builds the parser from the embedded dictionary.
func LoadHeuristicParser() (*HeuristicParser, error) {
	return ParseHeuristicParser(parserKeywordsYAML)
}

// ParseHeuristicParser builds the parser from a YAML dictionary.
func ParseHeuristicParser(data []byte) (*HeuristicParser, error) {
	var keywords ParserKeywords
	if err := yaml.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("decode parser keywords: %w", err)
	}
	for day := range keywords.Days {
		if !models.IsWeekday(day) {
			return nil, fmt.Errorf("parser keywords: unknown weekday %q", day)
		}
	}

	p := &HeuristicParser{
		skills:    make(map[models.SkillCategory]*keywordMatcher),
		dayLookup: make(map[string]string),
		currency:  make(map[string]string),
	}
	var err error
	if p.categories, err = newKeywordMatcher(keywords.Categories); err != nil {
		return nil, err
	}
	if p.seniority, err = newKeywordMatcher(keywords.Seniority); err != nil {
		return nil, err
	}
	if p.languages, err = newKeywordMatcher(keywords.Languages); err != nil {
		return nil, err
	}
	if p.days, err = newKeywordMatcher(keywords.Days); err != nil {
		return nil, err
	}
	if p.currencies, err = newKeywordMatcher(keywords.Currencies); err != nil {
		return nil, err
	}
	for category, names := range keywords.Skills {
		if !category.Valid() {
			return nil, fmt.Errorf("parser keywords: unknown skill category %q", category)
		}
		dictionary := make(map[string][]string, len(names))
		for _, name := range names {
			dictionary[name] = []string{name}
		}
		if p.skills[category], err = newKeywordMatcher(dictionary); err != nil {
			return nil, err
		}
	}

	var dayKeywords []string
	for day, words := range keywords.Days {
		for _, word := range append([]string{day}, words...) {
			p.dayLookup[strings.ToLower(word)] = day
			dayKeywords = append(dayKeywords, word, day)
		}
	}
	if len(dayKeywords) > 0 {
		days := alternation(dayKeywords)
		p.dayRange = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(` + days + `)\s*(?:-|–|to|through|thru|until)\s*(` + days + `)(?:$|[^\p{L}])`)
	}

	var currencyKeywords []string
	for code, words := range keywords.Currencies {
		for _, word := range append([]string{code}, words...) {
			p.currency[strings.ToLower(word)] = code
			currencyKeywords = append(currencyKeywords, word)
		}
	}
	if len(currencyKeywords) > 0 {
		symbols := alternation(currencyKeywords)
		p.money = []*regexp.Regexp{
			regexp.MustCompile(`(?i)(` + symbols + `)\s?(\d[\d,]*(?:\.\d+)?)`),
			regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s?(` + symbols + `)(?:$|[^\p{L}])`),
		}
	}
	return p, nil
}

// Parse extracts a suggestion from free text.
func (p *HeuristicParser) Parse(text string) models.GigSuggestion {
	text = strings.TrimSpace(text)
	suggestion := models.GigSuggestion{
		Title:       suggestedTitle(text),
		Description: text,
		Skills:      make(map[models.SkillCategory][]string),
		Languages:   []models.SuggestedLanguage{},
		Source:      models.SuggestionSourceHeuristic,
	}

	if category, ok := p.categories.first(text); ok {
		suggestion.Category = category
	}
	if level, ok := p.seniority.first(text); ok {
		suggestion.Seniority.Level = level
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		suggestion.Seniority.YearsExperience, _ = strconv.Atoi(m[1])
	}

	suggestion.Schedules = p.schedules(text)
	suggestion.TimeZones = uniqueStrings(timeZonePattern.FindAllString(text, -1))
	suggestion.MinimumHours = minimumHours(text)

	for _, category := range models.SkillCategories {
		matcher, ok := p.skills[category]
		if !ok {
			continue
		}
		for _, hit := range matcher.all(text) {
			suggestion.Skills[category] = append(suggestion.Skills[category], hit.Value)
		}
	}
	for _, hit := range p.languages.all(text) {
		suggestion.Languages = append(suggestion.Languages, models.SuggestedLanguage{
			Name:        hit.Value,
			Proficiency: proficiencyNear(text, hit),
		})
	}

	suggestion.Commission = p.commission(text)
	if m := teamSizePattern.FindStringSubmatch(text); m != nil {
		suggestion.TeamSize, _ = strconv.Atoi(m[1])
	}
	return suggestion
}

func (p *HeuristicParser) schedules(text string) []models.DaySchedule {
	selected := make(map[string]bool)
	if p.dayRange != nil {
		for _, m := range p.dayRange.FindAllStringSubmatch(text, -1) {
			from, to := p.dayLookup[strings.ToLower(m[1])], p.dayLookup[strings.ToLower(m[2])]
			start, end := models.WeekdayIndex(from), models.WeekdayIndex(to)
			if start < 0 || end < 0 {
				continue
			}
			for i := start; ; i = (i + 1) % len(models.Weekdays) {
				selected[models.Weekdays[i]] = true
				if i == end {
					break
				}
			}
		}
	}
	for _, hit := range p.days.all(text) {
		selected[hit.Value] = true
	}
	if weekdaysPattern.MatchString(text) {
		for _, day := range models.Weekdays[:5] {
			selected[day] = true
		}
	}
	if weekendsPattern.MatchString(text) {
		selected[models.Saturday] = true
		selected[models.Sunday] = true
	}

	hours, found := parseHours(text)
	if len(selected) == 0 {
		if !found {
			return []models.DaySchedule{}
		}
		for _, day := range models.Weekdays[:5] {
			selected[day] = true
		}
	}
	if !found {
		hours = DefaultHours
	}

	out := make([]models.DaySchedule, 0, len(selected))
	for _, day := range models.Weekdays {
		if selected[day] {
			out = append(out, models.DaySchedule{Day: day, Hours: hours})
		}
	}
	return out
}

// parseHours reads the first time range. A bare "3-5" is ignored unless a colon or am/pm marks it
// as a time.
func parseHours(text string) (models.TimeRange, bool) {
	for _, m := range hoursPattern.FindAllStringSubmatch(text, -1) {
		if m[2] == "" && m[3] == "" && m[5] == "" && m[6] == "" {
			continue
		}
		start, ok := clockTime(m[1], m[2], m[3])
		if !ok {
			continue
		}
		end, ok := clockTime(m[4], m[5], m[6])
		if !ok {
			continue
		}
		return models.TimeRange{Start: start, End: end}, true
	}
	return models.TimeRange{}, false
}

func clockTime(hour, minute, meridiem string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return "", false
	}
	m := 0
	if minute != "" {
		m, _ = strconv.Atoi(minute)
	}
	switch strings.ToLower(meridiem) {
	case "am":
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 12 {
			h += 12
		}
	}
	value := fmt.Sprintf("%02d:%02d", h, m)
	return value, IsHHMM(value)
}

func minimumHours(text string) models.MinimumHours {
	var out models.MinimumHours
	for _, m := range minimumPattern.FindAllStringSubmatch(text, -1) {
		value, _ := strconv.Atoi(m[1])
		switch strings.ToLower(m[2]) {
		case "day":
			if value <= 24 {
				out.Daily = value
			}
		case "week":
			if value <= 168 {
				out.Weekly = value
			}
		case "month":
			if value <= 744 {
				out.Monthly = value
			}
		}
	}
	return out
}

func (p *HeuristicParser) commission(text string) models.Commission {
	var out models.Commission
	for i, pattern := range p.money {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		symbol, amount := m[1], m[2]
		if i == 1 {
			symbol, amount = m[2], m[1]
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64)
		if err != nil {
			continue
		}
		out.Base = "Fixed"
		out.BaseAmount = value
		out.Currency = p.currency[strings.ToLower(symbol)]
		break
	}
	if out.Currency == "" {
		if code, ok := p.currencies.first(text); ok {
			out.Currency = code
		}
	}
	if strings.Contains(strings.ToLower(text), "bonus") {
		out.Bonus = "Performance"
	}
	return out
}

// proficiencyNear reads the proficiency from the sentence naming the language.
func proficiencyNear(text string, hit keywordHit) string {
	start := strings.LastIndexAny(text[:hit.Start], sentenceBoundary) + 1
	end := len(text)
	if i := strings.IndexAny(text[hit.End:], sentenceBoundary); i >= 0 {
		end = hit.End + i
	}
	sentence := strings.ToLower(text[start:end])
	switch {
	case strings.Contains(sentence, "native"), strings.Contains(sentence, "mother tongue"):
		return models.ProficiencyC2
	case strings.Contains(sentence, "fluent"), strings.Contains(sentence, "advanced"):
		return models.ProficiencyC1
	case strings.Contains(sentence, "basic"), strings.Contains(sentence, "notions"):
		return models.ProficiencyA2
	case strings.Contains(sentence, "intermediate"), strings.Contains(sentence, "conversational"):
		return models.ProficiencyB1
	default:
		return models.ProficiencyB2
	}
}

func suggestedTitle(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, ".!?"); i > 0 {
		line = line[:i]
	}
	if utf8.RuneCountInString(line) <= maxSuggestedTitle {
		return line
	}
	runes := []rune(line)[:maxSuggestedTitle]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > maxSuggestedTitle/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

func uniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
