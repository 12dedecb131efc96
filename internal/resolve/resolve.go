// Package resolve fuzzy-matches free-text account references from bank
// exports against the account registry. Source files name accounts
// inconsistently ("KB Star Checking", "kb star", "Star *1234"), so matching
// is token-based with a minimum-confidence floor instead of exact.
package resolve

import (
	"strings"
	"unicode"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Scoring weights. Name-token hits dominate, corpus hits (description,
// institution, last-4) count half, partial token overlap barely registers.
const (
	nameTokenScore   = 10
	corpusTokenScore = 5
	overlapScore     = 2
	containmentBonus = 15
	acceptFloor      = 5
)

// Account resolves a free-text reference to an account ID. Matching is a
// greedy single pass: the highest-scoring candidate wins, ties resolved by
// registry order, and anything scoring under the floor stays unresolved.
// Identical inputs always resolve identically.
func Account(freeText string, accounts []model.Account) (string, bool) {
	query := normalize(freeText)
	if query == "" {
		return "", false
	}

	for _, a := range accounts {
		if normalize(a.Name) == query {
			return a.ID, true
		}
	}

	queryTokens := tokenize(freeText)

	bestID := ""
	bestScore := 0
	for _, a := range accounts {
		score := scoreCandidate(query, queryTokens, a)
		if score > bestScore {
			bestID, bestScore = a.ID, score
		}
	}
	if bestScore < acceptFloor {
		return "", false
	}
	return bestID, true
}

func scoreCandidate(query string, queryTokens []string, a model.Account) int {
	nameTokens := tokenize(a.Name)
	corpusTokens := append([]string{}, nameTokens...)
	corpusTokens = append(corpusTokens, tokenize(a.Description)...)
	corpusTokens = append(corpusTokens, tokenize(a.Institution)...)
	corpusTokens = append(corpusTokens, tokenize(a.LastFour)...)

	score := 0
	for _, qt := range queryTokens {
		switch {
		case contains(nameTokens, qt):
			score += nameTokenScore
		case contains(corpusTokens, qt):
			score += corpusTokenScore
		case overlapsAny(nameTokens, qt):
			score += overlapScore
		}
	}

	if name := normalize(a.Name); name != "" && strings.Contains(query, name) {
		score += containmentBonus
	}
	return score
}

// normalize lower-cases and strips everything that is not a letter or digit.
// Letters include Hangul, so Korean account names survive intact.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func tokenize(s string) []string {
	var tokens []string
	for _, f := range strings.Fields(s) {
		if t := normalize(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func contains(tokens []string, t string) bool {
	for _, tok := range tokens {
		if tok == t {
			return true
		}
	}
	return false
}

// overlapsAny reports whether t shares a substring relationship with any
// token, requiring both sides to be longer than 2 runes so stray particles
// don't match.
func overlapsAny(tokens []string, t string) bool {
	if len([]rune(t)) <= 2 {
		return false
	}
	for _, tok := range tokens {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if strings.Contains(tok, t) || strings.Contains(t, tok) {
			return true
		}
	}
	return false
}
