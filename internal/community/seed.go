package community

import "github.com/tempohub/tempohub-service/internal/models"

// DemoUserID owns the demo inbox and profile.
const DemoUserID = "me"

func demoUser() models.User {
	return models.User{
		ID:     DemoUserID,
		Name:   "Alex Raver",
		Handle: "@alex_techno",
		Avatar: "https://picsum.photos/200/200?random=99",
		Bio:    "Techno enthusiast 🎵 | Night owl 🦉",
	}
}

func seedUsers() []models.User {
	return []models.User{
		{ID: "1", Name: "Sarah Jenkins", Handle: "@sarah_j", Avatar: "https://picsum.photos/200/200?random=1"},
		{ID: "2", Name: "Mike Chen", Handle: "@chen_beats", Avatar: "https://picsum.photos/200/200?random=2"},
		{ID: "3", Name: "TempoHub Admin", Handle: "@admin", Avatar: "https://picsum.photos/200/200?random=3", IsVerified: true},
	}
}

func seedPosts(users []models.User) []models.Post {
	return []models.Post{
		{
			ID:        "101",
			Author:    users[2],
			Content:   "Which genre should we feature for next week's spotlight event?",
			Timestamp: "1h ago",
			Likes:     156,
			Comments:  42,
			Type:      models.PostTypePoll,
			PollOptions: []models.PollOption{
				{ID: "opt1", Text: "Industrial Techno", Votes: 65},
				{ID: "opt2", Text: "Deep House", Votes: 20},
				{ID: "opt3", Text: "Drum & Bass", Votes: 15},
			},
			TotalVotes: 100,
			IsPinned:   true,
		},
		{
			ID:        "1",
			Author:    users[0],
			Content:   "Just secured tickets for the Cyberpunk Bunker event! Who else is going? 🎫✨ #TempoHub",
			Timestamp: "2h ago",
			Likes:     24,
			Comments:  5,
			Type:      models.PostTypeText,
		},
		{
			ID:        "2",
			Author:    users[1],
			Content:   "The visuals at last night's show were absolutely insane. Unmatched vibe.",
			Image:     "https://images.unsplash.com/photo-1492684223066-81342ee5ff30?q=80&w=1000&auto=format&fit=crop",
			Timestamp: "4h ago",
			Likes:     89,
			Comments:  12,
			Type:      models.PostTypeImage,
		},
	}
}

func seedChats(users []models.User) []models.Chat {
	return []models.Chat{
		{
			ID:          "c1",
			User:        users[0],
			LastMessage: "Are you going to the afterparty?",
			Unread:      2,
			Messages: []models.Message{
				{ID: "m1", SenderID: "1", Text: "Hey Alex!", Timestamp: "10:00 AM"},
				{ID: "m2", SenderID: DemoUserID, Text: "Yo Sarah, what's up?", Timestamp: "10:05 AM"},
				{ID: "m3", SenderID: "1", Text: "Are you going to the afterparty?", Timestamp: "10:06 AM"},
			},
		},
		{
			ID:          "c2",
			User:        users[1],
			LastMessage: "Sent you the track ID.",
			Unread:      0,
			Messages:    []models.Message{},
		},
	}
}

func seedGroups() []models.Group {
	return []models.Group{
		{ID: "1", Name: "Techno Lovers NYC", Members: 2300, Description: "The underground scene."},
		{ID: "2", Name: "Jazz & Chill", Members: 850, Description: "Smooth vibes only."},
		{ID: "3", Name: "Festival Squad 2025", Members: 1100, Description: "Planning the trip."},
	}
}

func seedUpdates() []models.Update {
	return []models.Update{
		{ID: "u1", Text: "Server maintenance scheduled for 3 AM EST.", Date: "Today"},
		{ID: "u2", Text: `New "Dark Mode" features are live!`, Date: "Yesterday"},
	}
}

func demoProfile() models.Profile {
	return models.Profile{
		User:      demoUser(),
		Following: 142,
		Followers: "8.5k",
		Events:    34,
	}
}
