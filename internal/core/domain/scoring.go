package domain

import (
	"regexp"
	"strings"
	"time"
)

// Scoring is additive over ordered rule tables, then clamped to [0,100].
// Rules are data so they can be audited and tested apart from control flow.

// PhraseRule binds one lower-cased phrase to a fixed score contribution.
type PhraseRule struct {
	Phrase string
	Weight int
}

// JobPhraseRules scores job postings. Matching is case-insensitive
// substring against title plus description; each rule counts once no
// matter how often its phrase repeats.
var JobPhraseRules = []PhraseRule{
	// Direct astroturf language
	{"paid protest", 25},
	{"hold signs", 25},
	{"same day pay", 25},
	{"cash daily", 25},

	// Activity context
	{"protest", 10},
	{"rally", 10},
	{"canvass", 10},
	{"grassroots", 10},
	{"political", 10},

	// Urgency framing
	{"urgent", 5},
	{"immediate", 5},
	{"today", 5},
	{"asap", 5},
}

// NewsKeywords boost a news article's relevance: +15 per keyword found in
// the title, +5 per keyword found in the snippet, on a base of 50.
var NewsKeywords = []string{
	"paid",
	"protest",
	"astroturf",
	"fake",
	"manufactured",
	"crowds on demand",
}

// GenericNameTokens are the substrings of the generic-advocacy name rule.
var GenericNameTokens = []string{
	"citizens for",
	"americans for",
	"families for",
	"voices for",
	"action fund",
	"action pac",
	"freedom",
	"liberty",
}

// HighActivityStates carry a small risk bump for organizations registered
// in states with dense political-spending activity.
var HighActivityStates = []string{"TX", "FL", "OH", "PA", "GA", "AZ", "NC", "MI"}

// threeWordPatriotic matches names like "Keep Texas Strong": exactly three
// capitalized words, the construction generic advocacy shells favor.
var threeWordPatriotic = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+ [A-Z][a-z]+$`)

const (
	weightRecentFiling  = 25 // first filed within 2 years of the scan
	weightNewerFiling   = 15 // within 5 years
	weightGenericName   = 15
	weightThreeWordName = 10
	weightDelaware      = 15
	weightHighRevenue   = 15
	weightActiveState   = 5

	newsBaseRelevance = 50
	newsTitleWeight   = 15
	newsSnippetWeight = 5

	highRevenueFloor = 1_000_000 // USD, exclusive
)

// ScoreJob computes the 0-100 suspicion score for one job posting.
// Pure: the same record always yields the same score.
func ScoreJob(job JobPosting) int {
	text := strings.ToLower(job.Title + " " + job.Description)

	score := 0
	for _, rule := range JobPhraseRules {
		if strings.Contains(text, rule.Phrase) {
			score += rule.Weight
		}
	}
	return ClampScore(score)
}

// ScoreOrg computes the 0-100 risk score for one organization filing.
// now anchors the filing-age rules to the scan date. Missing fields
// contribute zero, never an error.
func ScoreOrg(org Organization, now time.Time) int {
	score := 0

	if filed, ok := ParseDate(org.FirstFileDate); ok {
		switch {
		case filed.After(now.AddDate(-2, 0, 0)):
			score += weightRecentFiling
		case filed.After(now.AddDate(-5, 0, 0)):
			score += weightNewerFiling
		}
	}

	generic := isGenericAdvocacyName(org.Name)
	if generic {
		score += weightGenericName
		if len(strings.Fields(org.Name)) == 3 {
			score += weightThreeWordName
		}
	}

	if strings.EqualFold(org.State, "DE") {
		score += weightDelaware
	}

	if generic && org.Revenue > highRevenueFloor {
		score += weightHighRevenue
	}

	if isHighActivityState(org.State) {
		score += weightActiveState
	}

	return ClampScore(score)
}

// ScoreNews computes the 0-100 topical relevance of one news article.
func ScoreNews(article NewsArticle) int {
	title := strings.ToLower(article.Title)
	snippet := strings.ToLower(article.Snippet)

	score := newsBaseRelevance
	for _, kw := range NewsKeywords {
		if strings.Contains(title, kw) {
			score += newsTitleWeight
		}
		if strings.Contains(snippet, kw) {
			score += newsSnippetWeight
		}
	}
	return ClampScore(score)
}

func isGenericAdvocacyName(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, token := range GenericNameTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return threeWordPatriotic.MatchString(name)
}

func isHighActivityState(state string) bool {
	for _, s := range HighActivityStates {
		if strings.EqualFold(state, s) {
			return true
		}
	}
	return false
}

// ClampScore bounds a raw additive total to the 0-100 display range.
// Distinct rule stacks above 100 collapse to 100 on purpose.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
