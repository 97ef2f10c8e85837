package api

// Wire types matching the backend's JSON responses. Server timestamps are
// carried as the raw ISO strings the backend emits (no timezone suffix) and
// parsed lazily where display needs them.

// User is the authenticated identity record.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	IsActive  bool   `json:"is_active,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// meResponse wraps the current-user lookup.
type meResponse struct {
	User *User `json:"user"`
}

// Product is one catalog item attached to a bot reply or a browse result.
type Product struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url"`
	Rating        float64 `json:"rating"`
	IsFeatured    bool    `json:"is_featured"`
	IsOnSale      bool    `json:"is_on_sale"`
	SalePrice     float64 `json:"sale_price"`
	DisplayPrice  float64 `json:"display_price"`
}

// BotReply is the assistant's answer to one message.
type BotReply struct {
	Text     string    `json:"text"`
	Products []Product `json:"products,omitempty"`
}

// SendMessageResponse is returned by POST /chat. The session token is present
// when the backend minted a new session for this thread.
type SendMessageResponse struct {
	Response     BotReply `json:"response"`
	SessionToken string   `json:"session_token,omitempty"`
	SessionID    int      `json:"session_id,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
}

// ResetResponse is returned by POST /chat/reset.
type ResetResponse struct {
	SessionToken string `json:"session_token"`
}

// ChatSession is one conversation thread belonging to the authenticated user.
type ChatSession struct {
	ID           int    `json:"id"`
	SessionToken string `json:"session_token"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	IsActive     bool   `json:"is_active"`
	MessageCount int    `json:"message_count"`
}

// sessionsResponse wraps the session list.
type sessionsResponse struct {
	Sessions []ChatSession `json:"sessions"`
}

// ChatMessage is one stored message in a session's history.
type ChatMessage struct {
	ID          int    `json:"id"`
	SessionID   int    `json:"session_id"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
}

// historyResponse wraps a session history fetch.
type historyResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// ProductList is a page of catalog results.
type ProductList struct {
	Products   []Product `json:"products"`
	TotalCount int       `json:"total_count"`
	HasMore    bool      `json:"has_more"`
}

// SearchResults is returned by the keyword product search.
type SearchResults struct {
	Products     []Product `json:"products"`
	Query        string    `json:"query"`
	TotalResults int       `json:"total_results"`
}

// categoriesResponse wraps the category list.
type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// brandsResponse wraps the brand list.
type brandsResponse struct {
	Brands []string `json:"brands"`
}

// HealthResponse is returned by the health probe.
type HealthResponse struct {
	Status string `json:"status"`
}
