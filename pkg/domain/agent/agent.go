// Package agent holds the registry of AI agents governed by the platform.
// Every guardrail check and audit record is attributed to one agent.
package agent

import (
	"time"

	"github.com/google/uuid"

	"github.com/AegisGov/AegisGate/pkg/domain"
)

type Agent struct {
	ID                uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	Name              string              `json:"name" gorm:"uniqueIndex"`
	Description       string              `json:"description"`
	Department        string              `json:"department" gorm:"index"`
	OwnerEmail        string              `json:"owner_email"`
	GuardrailPolicies domain.PoliciesJSON `json:"guardrail_policies" gorm:"type:jsonb"`
	Active            bool                `json:"active"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func (a Agent) TableName() string {
	return "public.agents"
}
