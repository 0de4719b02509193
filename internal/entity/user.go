package entity

// User is a connected client identified by its session id. Bot users are
// seated by the server and never own a connection.
type User struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	IsBot    bool   `json:"isBot,omitempty"`
}

// Player is a seated user. Color stays empty until the game starts.
type Player struct {
	User
	Color Color `json:"color,omitempty"`
	Ready bool  `json:"ready"`
}
