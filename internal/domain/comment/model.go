package comment

import (
	"slices"
	"time"
)

// ReactionType is one of the supported comment reactions.
type ReactionType string

const (
	ReactionLike  ReactionType = "LIKE"
	ReactionLove  ReactionType = "LOVE"
	ReactionLaugh ReactionType = "LAUGH"
	ReactionWow   ReactionType = "WOW"
	ReactionSad   ReactionType = "SAD"
)

// Valid reports whether r is a supported reaction.
func (r ReactionType) Valid() bool {
	switch r {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad:
		return true
	}
	return false
}

// Attachment is an uploaded file referenced by a comment.
type Attachment struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
	Size        int64  `json:"size"`
}

// Comment is an append-only project message.
type Comment struct {
	ID               string                    `json:"id"`
	ProjectID        string                    `json:"projectId"`
	AuthorUserID     string                    `json:"authorUserId"`
	AuthorName       string                    `json:"authorName"`
	Message          string                    `json:"message"`
	CreatedAt        time.Time                 `json:"createdAt,omitzero"`
	TimeSpentMinutes *int                      `json:"timeSpentMinutes,omitempty"`
	Reactions        map[ReactionType][]string `json:"reactions,omitempty"`
	Attachment       *Attachment               `json:"attachment,omitempty"`
}

// CreateRequest holds new-comment input.
type CreateRequest struct {
	Message          string      `json:"message"`
	TimeSpentMinutes *int        `json:"timeSpentMinutes,omitempty"`
	Attachment       *Attachment `json:"attachment,omitempty"`
}

// ToggleReaction adds or removes userID from the reaction set for r and
// returns the updated comment. The input is not modified.
func ToggleReaction(c Comment, r ReactionType, userID string) Comment {
	out := c
	out.Reactions = make(map[ReactionType][]string, len(c.Reactions)+1)
	for k, v := range c.Reactions {
		out.Reactions[k] = slices.Clone(v)
	}
	users := out.Reactions[r]
	if idx := slices.Index(users, userID); idx >= 0 {
		users = slices.Delete(users, idx, idx+1)
	} else {
		users = append(users, userID)
	}
	if len(users) == 0 {
		delete(out.Reactions, r)
	} else {
		out.Reactions[r] = users
	}
	return out
}

// ReactedBy reports whether userID reacted with r.
func (c Comment) ReactedBy(r ReactionType, userID string) bool {
	return slices.Contains(c.Reactions[r], userID)
}
