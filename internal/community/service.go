// Package community backs the social side of TempoHub: the feed, direct
// messages, groups and verified updates.
package community

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/events"
	"github.com/tempohub/tempohub-service/internal/models"
)

var (
	ErrEmptyContent  = errors.New("content is required")
	ErrPostNotFound  = errors.New("post not found")
	ErrChatNotFound  = errors.New("chat not found")
	ErrGroupNotFound = errors.New("group not found")
)

type post struct {
	models.Post
	likedBy map[string]bool
}

type group struct {
	models.Group
	members map[string]bool
}

// Service holds the community state in memory.
type Service struct {
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	mu      sync.RWMutex
	users   []models.User
	posts   []*post // newest first
	chats   []*models.Chat
	groups  []*group
	updates []models.Update
	profile models.Profile
}

// NewService creates a community seeded with the demo data.
func NewService(publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	users := seedUsers()
	s := &Service{
		publisher: publisher,
		logger:    logger.Named("community"),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		users:     users,
		updates:   seedUpdates(),
		profile:   demoProfile(),
	}
	for _, p := range seedPosts(users) {
		s.posts = append(s.posts, &post{Post: p, likedBy: make(map[string]bool)})
	}
	for _, c := range seedChats(users) {
		s.chats = append(s.chats, &c)
	}
	for _, g := range seedGroups() {
		s.groups = append(s.groups, &group{Group: g, members: make(map[string]bool)})
	}
	return s
}

// AuthorProfile derives the public profile of a signed-in account.
func AuthorProfile(userID, name, email string) models.User {
	handle := email
	if i := strings.Index(email, "@"); i >= 0 {
		handle = email[:i]
	}
	return models.User{
		ID:     userID,
		Name:   name,
		Handle: "@" + handle,
		Avatar: "https://picsum.photos/seed/" + userID + "/200/200",
	}
}

// Feed returns every post, newest first, as seen by viewerID. An empty
// viewerID is an anonymous reader.
func (s *Service) Feed(viewerID string) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feed := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		feed = append(feed, p.view(viewerID))
	}
	return feed
}

// CreatePost publishes a text post by author at the top of the feed.
func (s *Service) CreatePost(ctx context.Context, author models.User, content string) (models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return models.Post{}, ErrEmptyContent
	}

	p := &post{
		Post: models.Post{
			ID:        s.newID(),
			Author:    author,
			Content:   content,
			Timestamp: "Just now",
			Type:      models.PostTypeText,
		},
		likedBy: make(map[string]bool),
	}

	s.mu.Lock()
	s.posts = append([]*post{p}, s.posts...)
	created := p.view(author.ID)
	s.mu.Unlock()

	s.logger.Info("Post created", zap.String("post_id", created.ID), zap.String("author_id", author.ID))
	if err := s.publisher.PublishPostCreated(ctx, created); err != nil {
		s.logger.Warn("Failed to publish post_created", zap.String("post_id", created.ID), zap.Error(err))
	}
	return created, nil
}

// ToggleLike flips viewerID's like on the post.
func (s *Service) ToggleLike(postID, viewerID string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.ID != postID {
			continue
		}
		if p.likedBy[viewerID] {
			delete(p.likedBy, viewerID)
			p.Likes--
		} else {
			p.likedBy[viewerID] = true
			p.Likes++
		}
		return p.view(viewerID), nil
	}
	return models.Post{}, ErrPostNotFound
}

// Chats lists the demo inbox without message bodies, plus the total unread
// count shown on the navigation badge.
func (s *Service) Chats() ([]models.Chat, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := make([]models.Chat, 0, len(s.chats))
	unread := 0
	for _, c := range s.chats {
		summary := *c
		summary.Messages = nil
		chats = append(chats, summary)
		unread += c.Unread
	}
	return chats, unread
}

// Chat returns one conversation with its messages.
func (s *Service) Chat(chatID string) (models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.findChat(chatID)
	if c == nil {
		return models.Chat{}, ErrChatNotFound
	}
	return copyChat(c), nil
}

// SendMessage appends a message from senderID to the chat.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyContent
	}

	s.mu.Lock()
	c := s.findChat(chatID)
	if c == nil {
		s.mu.Unlock()
		return models.Message{}, ErrChatNotFound
	}
	msg := models.Message{
		ID:        s.newID(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: s.now().Format("3:04 PM"),
	}
	c.Messages = append(c.Messages, msg)
	c.LastMessage = text
	s.mu.Unlock()

	if err := s.publisher.PublishMessageSent(ctx, chatID, msg); err != nil {
		s.logger.Warn("Failed to publish message_sent", zap.String("chat_id", chatID), zap.Error(err))
	}
	return msg, nil
}

// MarkRead clears the unread counter of the chat.
func (s *Service) MarkRead(chatID string) (models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findChat(chatID)
	if c == nil {
		return models.Chat{}, ErrChatNotFound
	}
	c.Unread = 0
	return copyChat(c), nil
}

// Groups lists every group with viewerID's membership.
func (s *Service) Groups(viewerID string) []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g.view(viewerID))
	}
	return groups
}

// JoinGroup adds userID to the group. Joining twice changes nothing.
func (s *Service) JoinGroup(ctx context.Context, groupID, userID string) (models.Group, error) {
	s.mu.Lock()
	g := s.findGroup(groupID)
	if g == nil {
		s.mu.Unlock()
		return models.Group{}, ErrGroupNotFound
	}
	joined := !g.members[userID]
	if joined {
		g.members[userID] = true
		g.Members++
	}
	view := g.view(userID)
	s.mu.Unlock()

	if joined {
		if err := s.publisher.PublishGroupJoined(ctx, groupID, userID); err != nil {
			s.logger.Warn("Failed to publish group_joined", zap.String("group_id", groupID), zap.Error(err))
		}
	}
	return view, nil
}

// LeaveGroup removes userID from the group.
func (s *Service) LeaveGroup(groupID, userID string) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findGroup(groupID)
	if g == nil {
		return models.Group{}, ErrGroupNotFound
	}
	if g.members[userID] {
		delete(g.members, userID)
		g.Members--
	}
	return g.view(userID), nil
}

func (s *Service) Updates() []models.Update {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Update(nil), s.updates...)
}

// Suggestions is the "who to follow" list.
func (s *Service) Suggestions() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

func (s *Service) Profile() models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// findChat must be called with s.mu held.
func (s *Service) findChat(id string) *models.Chat {
	for _, c := range s.chats {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// findGroup must be called with s.mu held.
func (s *Service) findGroup(id string) *group {
	for _, g := range s.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (p *post) view(viewerID string) models.Post {
	out := p.Post
	out.IsLiked = viewerID != "" && p.likedBy[viewerID]
	if len(p.PollOptions) > 0 {
		out.PollOptions = make([]models.PollOption, len(p.PollOptions))
		for i, opt := range p.PollOptions {
			opt.Percentage = PollPercentage(opt.Votes, p.TotalVotes)
			out.PollOptions[i] = opt
		}
	}
	return out
}

func (g *group) view(viewerID string) models.Group {
	out := g.Group
	out.MembersLabel = MembersLabel(g.Members)
	out.Initial = initial(g.Name)
	out.Joined = viewerID != "" && g.members[viewerID]
	return out
}

func copyChat(c *models.Chat) models.Chat {
	out := *c
	out.Messages = append([]models.Message{}, c.Messages...)
	return out
}

// PollPercentage is votes as a whole percentage of total. A zero total is
// treated as one vote.
func PollPercentage(votes, total int) int {
	if total == 0 {
		total = 1
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

// MembersLabel renders a member count the way group cards show it: 850,
// 1.1k, 2.3k, 12k.
func MembersLabel(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}
	label := strconv.FormatFloat(float64(n)/1000, 'f', 1, 64)
	return strings.TrimSuffix(label, ".0") + "k"
}

func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return ""
}
