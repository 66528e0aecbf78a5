package models

// User represents a community member
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Handle     string `json:"handle"`
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio,omitempty"`
	IsVerified bool   `json:"is_verified,omitempty"`
}

// PostType is the kind of content a post carries
type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
	PostTypePoll  PostType = "poll"
)

// PollOption is one answer of a poll post
type PollOption struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

// Post represents a feed entry
type Post struct {
	ID          string       `json:"id"`
	Author      User         `json:"author"`
	Content     string       `json:"content"`
	Image       string       `json:"image,omitempty"`
	Timestamp   string       `json:"timestamp"`
	Likes       int          `json:"likes"`
	Comments    int          `json:"comments"`
	IsLiked     bool         `json:"is_liked"`
	Type        PostType     `json:"type"`
	PollOptions []PollOption `json:"poll_options,omitempty"`
	TotalVotes  int          `json:"total_votes,omitempty"`
	IsPinned    bool         `json:"is_pinned,omitempty"`
}

// Message is a single direct message inside a chat
type Message struct {
	ID        string `json:"id"`
	SenderID  string `json:"sender_id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Chat is a direct conversation with another user
type Chat struct {
	ID          string    `json:"id"`
	User        User      `json:"user"`
	LastMessage string    `json:"last_message"`
	Unread      int       `json:"unread"`
	Messages    []Message `json:"messages,omitempty"`
}

// Group represents a community group
type Group struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Members      int    `json:"members"`
	MembersLabel string `json:"members_label"`
	Description  string `json:"description"`
	Initial      string `json:"initial"`
	Joined       bool   `json:"joined"`
}

// Update is a verified announcement from the TempoHub team
type Update struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date string `json:"date"`
}

// Profile summarizes the demo user shown in the community sidebar
type Profile struct {
	User      User   `json:"user"`
	Following int    `json:"following"`
	Followers string `json:"followers"`
	Events    int    `json:"events"`
}
