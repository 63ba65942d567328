package dto

import "lab-courier/internal/entities"

type RuleRequest struct {
	ReferringPhysicianID []string `json:"referring_physician_id" validate:"required,min=1"`
	PhlebotomistID       string   `json:"phlebotomistId" validate:"required"`
	IsActive             bool     `json:"isActive"`
}

func (r *RuleRequest) ToEntity() *entities.Rule {
	return &entities.Rule{
		ReferringPhysicianID: r.ReferringPhysicianID,
		PhlebotomistID:       r.PhlebotomistID,
		IsActive:             r.IsActive,
	}
}
