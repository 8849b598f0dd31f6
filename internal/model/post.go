package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"
)

// Post statuses. Transitions follow the convention
// draft -> scheduled -> published|failed; they are not enforced as a state
// machine, matching how callers actually move posts around.
const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
	PostStatusReview    = "review"
)

// Post is a piece of content with target platforms and a publication
// lifecycle status. Exactly one user owns a post.
type Post struct {
	ID             string         `db:"id" json:"id"`
	UserID         string         `db:"user_id" json:"userId"`
	Title          string         `db:"title" json:"title"`
	Content        string         `db:"content" json:"content"`
	Platforms      pq.StringArray `db:"platforms" json:"platforms"`
	Status         string         `db:"status" json:"status"`
	ScheduledAt    *time.Time     `db:"scheduled_at" json:"scheduledAt"`
	PublishedAt    *time.Time     `db:"published_at" json:"publishedAt"`
	MediaURLs      pq.StringArray `db:"media_urls" json:"mediaUrls"`
	Hashtags       pq.StringArray `db:"hashtags" json:"hashtags"`
	Mentions       pq.StringArray `db:"mentions" json:"mentions"`
	CharacterCount int            `db:"character_count" json:"characterCount"`
	WordCount      int            `db:"word_count" json:"wordCount"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// CreatePostRequest is the body for POST /api/posts.
type CreatePostRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Platforms   []string   `json:"platforms" validate:"required,min=1"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	MediaURLs   []string   `json:"mediaUrls"`
}

// UpdatePostRequest is the body for PUT /api/posts/{id}. Nil fields are left
// untouched; the update is a shallow merge over the stored row.
type UpdatePostRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Platforms   []string   `json:"platforms"`
	Status      *string    `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	MediaURLs   []string   `json:"mediaUrls"`
}

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// ComputeMetadata recomputes the derived content fields. Hashtags and
// mentions are extracted verbatim (prefix included); the word count skips
// mention tokens, so "Hello #world @friend" counts two words.
func (p *Post) ComputeMetadata() {
	p.Hashtags = hashtagPattern.FindAllString(p.Content, -1)
	if p.Hashtags == nil {
		p.Hashtags = pq.StringArray{}
	}
	p.Mentions = mentionPattern.FindAllString(p.Content, -1)
	if p.Mentions == nil {
		p.Mentions = pq.StringArray{}
	}

	p.CharacterCount = utf8.RuneCountInString(p.Content)

	words := 0
	for _, token := range strings.Fields(p.Content) {
		if strings.HasPrefix(token, "@") {
			continue
		}
		words++
	}
	p.WordCount = words
}

// ValidPostStatus reports whether s is one of the known lifecycle states.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusFailed, PostStatusReview:
		return true
	}
	return false
}

var (
	ErrPostNotFound        = errors.New("post not found")
	ErrNotPostOwner        = errors.New("not the owner of this post")
	ErrNoPlatforms         = errors.New("at least one platform is required")
	ErrInvalidPostStatus   = errors.New("invalid post status")
	ErrNoConnectedAccounts = errors.New("no connected accounts for the post's platforms")
	ErrPublishFailed       = errors.New("publish webhook failed")
)
