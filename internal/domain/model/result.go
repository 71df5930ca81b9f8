package model

import "time"

// RankedPlan is a scored plan with its position and the badge shown to the
// member.
type RankedPlan struct {
	Rank         int     `json:"rank"`
	DisplayScore int     `json:"displayScore"`
	TopReason    *Factor `json:"topReason,omitempty"`
	ScoredPlan
}

// Exclusion records why a catalog plan was left out of a match.
type Exclusion struct {
	PlanID   string `json:"planId"`
	PlanName string `json:"planName"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

// MatchResult is the full outcome of matching one questionnaire response.
type MatchResult struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"createdAt"`
	Response  QuestionnaireResponse `json:"response"`
	Plans     []RankedPlan          `json:"plans"`
	Excluded  []Exclusion           `json:"excluded"`
}
