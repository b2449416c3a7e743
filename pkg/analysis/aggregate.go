// Package analysis runs the feedback pipeline end to end and folds the
// classified comments into per-department, per-theme and overall summaries.
package analysis

import (
	"sort"
	"strings"

	"github.com/staffpulse/feedback-engine/pkg/config"
	"github.com/staffpulse/feedback-engine/pkg/models"
)

// Aggregator folds classified comments into summary buckets. Aggregation is
// a pure function of the comment set: buckets are rebuilt from scratch on
// every run, never updated incrementally, and the input order of comments
// cannot change the result.
type Aggregator struct {
	sampleLimit int
	themeLimit  int
}

// NewAggregator creates an aggregator with the given bucket limits.
func NewAggregator(cfg config.AnalysisConfig) *Aggregator {
	return &Aggregator{
		sampleLimit: cfg.SampleExcerpts,
		themeLimit:  cfg.TopThemes,
	}
}

// bucketAcc accumulates one grouping key before finalization.
type bucketAcc struct {
	comments int
	pos      int
	neu      int
	neg      int
	unscored int
	themes   map[string]int
	samples  []string
}

func newBucketAcc() *bucketAcc {
	return &bucketAcc{themes: make(map[string]int)}
}

func (b *bucketAcc) add(c *models.Comment, sampleLimit int) {
	b.comments++
	if !c.Scored() {
		b.unscored++
	}
	for _, s := range c.Sentences {
		switch s.Label {
		case models.SentimentPositive:
			b.pos++
		case models.SentimentNeutral:
			b.neu++
		case models.SentimentNegative:
			b.neg++
		}
	}
	for _, th := range c.Themes {
		if !reportableTheme(th) {
			continue
		}
		b.themes[th]++
	}
	if len(b.samples) < sampleLimit {
		b.samples = append(b.samples, c.Text)
	}
}

// Aggregate computes the department, theme and overall buckets plus scoring
// coverage for the given comments. Comments are folded in row order so
// sample excerpts are deterministic regardless of how the slice arrives.
func (a *Aggregator) Aggregate(comments []models.Comment) (map[string]models.AggregateBucket, map[string]models.AggregateBucket, models.AggregateBucket, models.Coverage) {
	ordered := make([]*models.Comment, len(comments))
	for i := range comments {
		ordered[i] = &comments[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RowIndex < ordered[j].RowIndex
	})

	departments := make(map[string]*bucketAcc)
	themes := make(map[string]*bucketAcc)
	overall := newBucketAcc()
	var cov models.Coverage

	for _, c := range ordered {
		overall.add(c, a.sampleLimit)
		if c.Scored() {
			cov.ScoredComments++
		} else {
			cov.UnscoredComments++
		}

		dept := departments[c.Department]
		if dept == nil {
			dept = newBucketAcc()
			departments[c.Department] = dept
		}
		dept.add(c, a.sampleLimit)

		for _, th := range c.Themes {
			if !reportableTheme(th) {
				continue
			}
			bucket := themes[th]
			if bucket == nil {
				bucket = newBucketAcc()
				themes[th] = bucket
			}
			bucket.add(c, a.sampleLimit)
		}
	}

	deptOut := make(map[string]models.AggregateBucket, len(departments))
	for key, acc := range departments {
		deptOut[key] = a.finalize(key, acc, true)
	}
	themeOut := make(map[string]models.AggregateBucket, len(themes))
	for key, acc := range themes {
		themeOut[key] = a.finalize(key, acc, false)
	}
	return deptOut, themeOut, a.finalize("overall", overall, true), cov
}

// finalize converts an accumulator into its immutable bucket. Theme buckets
// skip the theme ranking; it would always place the bucket's own key first.
func (a *Aggregator) finalize(key string, acc *bucketAcc, rankThemes bool) models.AggregateBucket {
	bucket := models.AggregateBucket{
		Key:          key,
		CommentCount: acc.comments,
		Sentences: models.SentimentBreakdown{
			Positive: acc.pos,
			Neutral:  acc.neu,
			Negative: acc.neg,
		},
		SampleExcerpts: acc.samples,
		UnscoredCount:  acc.unscored,
	}

	if total := bucket.Sentences.Total(); total > 0 {
		bucket.Sentences.PositivePct = 100 * float64(acc.pos) / float64(total)
		bucket.Sentences.NeutralPct = 100 * float64(acc.neu) / float64(total)
		bucket.Sentences.NegativePct = 100 * float64(acc.neg) / float64(total)
		bucket.SentimentRatio = float64(acc.pos-acc.neg) / float64(total)
	}

	if rankThemes {
		bucket.TopThemes = rankThemeCounts(acc.themes, a.themeLimit)
	}
	return bucket
}

// rankThemeCounts orders theme counts descending, breaking ties by name so
// equal counts always render in the same order.
func rankThemeCounts(counts map[string]int, limit int) []models.ThemeCount {
	ranked := make([]models.ThemeCount, 0, len(counts))
	for theme, count := range counts {
		ranked = append(ranked, models.ThemeCount{Theme: theme, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Theme < ranked[j].Theme
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// reportableTheme filters out pseudo-themes whose names contain "comment".
// Legacy taxonomies used entries like "positive comments" as catch-all
// display groups; they carry no thematic signal and would crowd out real
// themes in every report.
func reportableTheme(name string) bool {
	return !strings.Contains(strings.ToLower(name), "comment")
}
