package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseStatus is the workflow state of a case. Any status may transition
// to any other; there is no enforced ordering.
type CaseStatus string

const (
	CaseActive   CaseStatus = "active"
	CaseClosed   CaseStatus = "closed"
	CaseArchived CaseStatus = "archived"
)

// ValidCaseStatus reports whether s is a known case status.
func ValidCaseStatus(s CaseStatus) bool {
	switch s {
	case CaseActive, CaseClosed, CaseArchived:
		return true
	}
	return false
}

// Case is a legal matter owned by exactly one user. FileCount is a
// denormalized counter maintained by the file store.
type Case struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Client      string             `bson:"client" json:"client"`
	Description string             `bson:"description" json:"description"`
	Status      CaseStatus         `bson:"status" json:"status"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	FileCount   int                `bson:"fileCount" json:"fileCount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CaseStats aggregates a user's cases by status.
type CaseStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Closed   int `json:"closed"`
	Archived int `json:"archived"`
}
