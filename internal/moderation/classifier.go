// Package moderation implements the single-shot safe/sensitive classifier.
package moderation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/oracle"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/metrics"
)

const sensitiveLabel = "sensitive_political"

const promptTemplate = `Bạn là bộ phân loại nội dung cho trợ lý ảo hỗ trợ sinh viên. Phân loại câu hỏi sau vào đúng một trong hai nhãn:

- safe: câu hỏi phù hợp với môi trường giáo dục (học tập, quy chế đào tạo, học bổng, đời sống sinh viên, pháp luật, thông tin chung).
- sensitive_political: câu hỏi về chính trị, tôn giáo, các chủ đề xã hội nhạy cảm, bạo lực, thù ghét, hoặc nội dung không phù hợp với môi trường giáo dục.

Câu hỏi: "%s"

Chỉ trả lời đúng một nhãn: safe hoặc sensitive_political.`

// Classifier maps a raw question to safe/sensitive via one oracle call.
type Classifier struct {
	oracle oracle.Oracle
	logger *zap.Logger
}

// NewClassifier creates a moderation classifier.
func NewClassifier(o oracle.Oracle, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		oracle: o,
		logger: logger.With(zap.String("component", "moderation")),
	}
}

// Classify runs one classification on the raw question. There are no
// retries; an oracle error or a malformed verdict defaults to safe so the
// classifier never over-blocks (fail-open by policy).
func (c *Classifier) Classify(ctx context.Context, question string) (domain.Classification, string) {
	verdict, err := c.oracle.Complete(ctx, fmt.Sprintf(promptTemplate, question))
	if err != nil {
		c.logger.Warn("moderation call failed, defaulting to safe", zap.Error(err))
		metrics.ModerationDecisions.WithLabelValues(string(domain.ClassificationSafe)).Inc()
		return domain.ClassificationSafe, ""
	}

	normalized := strings.ToLower(strings.TrimSpace(verdict))
	result := domain.ClassificationSafe
	if strings.Contains(normalized, sensitiveLabel) {
		result = domain.ClassificationSensitive
	}

	metrics.ModerationDecisions.WithLabelValues(string(result)).Inc()
	return result, normalized
}
