package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseFile is the metadata record for an uploaded document. The bytes
// live in object storage under Key; URL is the public retrieval address.
type CaseFile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	OriginalName string             `bson:"originalName" json:"originalName"`
	Size         int64              `bson:"size" json:"size"`
	Type         string             `bson:"type" json:"type"`
	CaseID       primitive.ObjectID `bson:"caseId" json:"caseId"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	URL          string             `bson:"url" json:"url"`
	Key          string             `bson:"key" json:"key"`
	UploadedAt   time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

// IsImage reports whether the file is an image by declared MIME type.
func (f CaseFile) IsImage() bool {
	return len(f.Type) > 6 && f.Type[:6] == "image/"
}
