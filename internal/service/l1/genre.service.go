package l1_service

import (
	"strings"

	"streamalloc/internal/domain"
	"streamalloc/internal/util"
)

// GenreService scores how well a playlist's tags match a campaign's target
// genres. Two scoring modes exist and both are load-bearing: the unbounded
// match score feeds the intake UI badges, the normalized relevance feeds the
// feature extractor. They intentionally disagree about scale.
type GenreService interface {
	MatchScore(playlistGenres, campaignGenres []string) int
	MatchStrength(score int) domain.MatchStrength
	Relevance(playlistGenres, campaignGenres []string) float64
}

type genreServiceHandler struct {
	Tables *EngineTables
}

func NewGenreService(tables *EngineTables) GenreService {
	return genreServiceHandler{Tables: tables}
}

// MatchScore is the raw badge score: +3 per exact genre match, +2 when the
// affinity table links a campaign genre to one of the playlist's tags, +1 for
// a loose substring hit that neither of the above already covered.
func (h genreServiceHandler) MatchScore(playlistGenres, campaignGenres []string) int {
	tags := normalizeAll(playlistGenres)
	targets := normalizeAll(campaignGenres)
	if len(tags) == 0 || len(targets) == 0 {
		return 0
	}

	score := 0
	for _, target := range targets {
		if containsExact(tags, target) {
			score += 3
			continue
		}
		related := false
		for _, rel := range h.Tables.RelatedGenres(target) {
			if containsLoose(tags, rel) {
				related = true
				break
			}
		}
		if related {
			score += 2
		}
		// direct substring overlap with the target itself is weaker signal
		// than an affinity hit, but still worth surfacing
		if containsLoose(tags, target) {
			score++
		}
	}
	return score
}

func (h genreServiceHandler) MatchStrength(score int) domain.MatchStrength {
	switch {
	case score >= 3:
		return domain.MatchStrength_Strong
	case score >= 2:
		return domain.MatchStrength_Good
	default:
		return domain.MatchStrength_Partial
	}
}

// Relevance is the normalized [0,1] form used inside the prediction
// pipeline: exact matches dominate, affinity-table overlap tops it up.
func (h genreServiceHandler) Relevance(playlistGenres, campaignGenres []string) float64 {
	tags := normalizeAll(playlistGenres)
	targets := normalizeAll(campaignGenres)
	if len(tags) == 0 || len(targets) == 0 {
		return 0
	}

	exact := 0
	semantic := 0
	for _, target := range targets {
		if containsExact(tags, target) {
			exact++
			continue
		}
		for _, rel := range h.Tables.RelatedGenres(target) {
			if containsLoose(tags, rel) {
				semantic++
				break
			}
		}
	}

	exactRatio := float64(exact) / float64(len(targets))
	semanticRatio := float64(semantic) / float64(len(targets))
	if semanticRatio > 1 {
		semanticRatio = 1
	}

	score := exactRatio*0.7 + semanticRatio*0.3
	if score > 1 {
		return 1
	}
	return score
}

func normalizeAll(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		n := util.NormalizeGenre(g)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsExact(tags []string, genre string) bool {
	for _, t := range tags {
		if t == genre {
			return true
		}
	}
	return false
}

// containsLoose matches by substring containment in either direction, so
// "deep house" hits "house" and vice versa.
func containsLoose(tags []string, genre string) bool {
	for _, t := range tags {
		if strings.Contains(t, genre) || strings.Contains(genre, t) {
			return true
		}
	}
	return false
}
