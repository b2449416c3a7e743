// Package preprocess turns raw input rows into the ordered comment sequence
// the rest of the pipeline operates on.
package preprocess

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/logging"
	"github.com/staffpulse/feedback-engine/pkg/models"
)

// Run filters and normalizes rows into Comments. Rows with empty or
// whitespace-only text are dropped with a per-row warning; a missing
// department becomes models.DepartmentPlaceholder so grouping degrades
// gracefully to overall statistics when the input carries no department
// column at all.
func Run(rows []models.Row, logger *zap.Logger) []models.Comment {
	log := logger.Named("preprocess")

	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		text := strings.TrimSpace(row.Text)
		if text == "" {
			log.Warn("dropping row with empty text", zap.Int("row", row.Index))
			continue
		}

		dept := strings.TrimSpace(row.Department)
		if dept == "" {
			dept = models.DepartmentPlaceholder
		}

		comments = append(comments, models.Comment{
			ID:         uuid.New(),
			RowIndex:   row.Index,
			Department: dept,
			Text:       text,
			Themes:     []string{},
		})
	}

	log.Info("preprocessing complete",
		zap.Int("input_rows", len(rows)),
		zap.Int("comments", len(comments)))
	if len(comments) > 0 {
		log.Debug("first comment", zap.String("excerpt", logging.Excerpt(comments[0].Text)))
	}

	return comments
}
