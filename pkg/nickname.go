package pkg

import (
	"fmt"
	"math/rand"
)

var (
	adjectives = []string{"Happy", "Lucky", "Sunny", "Clever", "Swift", "Brave", "Calm", "Eager"}
	nouns      = []string{"Panda", "Tiger", "Eagle", "Dolphin", "Fox", "Wolf", "Bear", "Hawk"}
	avatars    = []string{"🐼", "🐯", "🦅", "🐬", "🦊", "🐺", "🐻", "🦉"}
)

// GenerateNickname returns a guest nickname like "SwiftFox42".
func GenerateNickname() string {
	adj := adjectives[rand.Intn(len(adjectives))] //nolint: gosec // it's ok
	noun := nouns[rand.Intn(len(nouns))]          //nolint: gosec // it's ok
	return fmt.Sprintf("%s%s%d", adj, noun, rand.Intn(100))
}

// GenerateAvatar returns a random guest avatar.
func GenerateAvatar() string {
	return avatars[rand.Intn(len(avatars))] //nolint: gosec // it's ok
}
