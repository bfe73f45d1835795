// Package feedback collects human review signals on guardrail decisions,
// used to tune thresholds and spot false positives.
package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RequestID     string    `json:"request_id" gorm:"index"`
	UserID        string    `json:"user_id"`
	Rating        int       `json:"rating"`
	FalsePositive bool      `json:"false_positive"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

func (f Feedback) TableName() string {
	return "public.feedback"
}

type Repository interface {
	Save(ctx context.Context, feedback *Feedback) error
	ListByRequest(ctx context.Context, requestID string) ([]Feedback, error)
}
