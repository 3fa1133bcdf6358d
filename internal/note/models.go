package note

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a short text note owned by a single user.
// bson field names follow the legacy "posts" collection layout
// ("user" for the owner, "date" for the creation time).
type Note struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Owner     string             `json:"owner" bson:"user"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Author    string             `json:"author" bson:"author"`
	CreatedAt time.Time          `json:"createdAt" bson:"date"`
}

// Patch carries the optional fields of a partial update. A nil field is left
// untouched in the stored record.
type Patch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Author  *string `json:"author,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Author == nil
}

// Apply merges the set fields into n.
func (p Patch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Author != nil {
		n.Author = *p.Author
	}
}

// Fields returns the set fields keyed by their stored names.
func (p Patch) Fields() map[string]string {
	out := map[string]string{}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Content != nil {
		out["content"] = *p.Content
	}
	if p.Author != nil {
		out["author"] = *p.Author
	}
	return out
}
