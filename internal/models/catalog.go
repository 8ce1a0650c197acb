package models

import "github.com/google/uuid"

type Category struct {
	BaseModel
	Name        string    `json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	Products    []Product `gorm:"many2many:product_categories;" json:"products,omitempty"`
}

// Review comment moderation states.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Review is a customer rating plus an optionally moderated comment.
// The rating counts toward the product aggregate immediately; the comment
// is only shown once a product manager approves it.
type Review struct {
	BaseModel
	ProductID     uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_review_product_user" json:"product_id"`
	UserID        uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_review_product_user" json:"user_id"`
	User          *User     `json:"user,omitempty"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CommentStatus string    `gorm:"default:pending" json:"comment_status"`
}
