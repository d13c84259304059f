package redis

import (
	"fmt"

	"github.com/wansatya/x.com/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wastegame"

// credentialKey returns the Redis key for a Credential
func credentialKey(id model.UserID) string {
	return fmt.Sprintf("%s:credential:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// profileKey returns the Redis key for a UserProfile document
func profileKey(id model.UserID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

// leaderboardKey returns the Redis key for the high score ZSET
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}
