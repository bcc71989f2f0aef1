package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageSender identifies who authored a chat message.
type MessageSender string

const (
	SenderUser MessageSender = "user"
	SenderAI   MessageSender = "ai"
)

// MessageMetadata carries completion-service usage data for AI messages.
type MessageMetadata struct {
	Model        string `bson:"model,omitempty" json:"model,omitempty"`
	Tokens       int    `bson:"tokens,omitempty" json:"tokens,omitempty"`
	ResponseTime int64  `bson:"responseTime,omitempty" json:"responseTime,omitempty"`
}

// ChatMessage is one append-only message in a case conversation.
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	Sender    MessageSender      `bson:"sender" json:"sender"`
	CaseID    primitive.ObjectID `bson:"caseId" json:"caseId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Metadata  *MessageMetadata   `bson:"metadata,omitempty" json:"metadata,omitempty"`
}
