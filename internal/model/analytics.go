package model

import "time"

// DashboardFilter narrows the dashboard aggregates. All fields are optional;
// the zero filter means "everything".
type DashboardFilter struct {
	From     *time.Time `json:"from"`
	To       *time.Time `json:"to"`
	Platform string     `json:"platform"`
}

// StatusCount is one row of the posts-by-status aggregate.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

// PlatformCount is one row of the posts-by-platform aggregate.
type PlatformCount struct {
	Platform string `db:"platform" json:"platform"`
	Count    int    `db:"count" json:"count"`
}

// Dashboard is the response for GET/POST /api/analytics/dashboard.
type Dashboard struct {
	TotalPosts        int             `json:"totalPosts"`
	PostsByStatus     []StatusCount   `json:"postsByStatus"`
	PostsByPlatform   []PlatformCount `json:"postsByPlatform"`
	ConnectedAccounts int             `json:"connectedAccounts"`
	RecentPosts       []Post          `json:"recentPosts"`
}

// PostAnalytics is the response for GET /api/analytics/posts/{id}.
type PostAnalytics struct {
	PostID         string     `json:"postId"`
	Status         string     `json:"status"`
	Platforms      []string   `json:"platforms"`
	CharacterCount int        `json:"characterCount"`
	WordCount      int        `json:"wordCount"`
	HashtagCount   int        `json:"hashtagCount"`
	MentionCount   int        `json:"mentionCount"`
	ScheduledAt    *time.Time `json:"scheduledAt"`
	PublishedAt    *time.Time `json:"publishedAt"`
}
