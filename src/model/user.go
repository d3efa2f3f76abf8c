package model

// User is the authenticated identity returned by the account API.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserProfile is the profile record kept alongside the account.
type UserProfile struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	SubscriptionTier string `json:"subscription_tier"`
}

// BrokerProfile is the profile the broker returns for a connected account.
type BrokerProfile struct {
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	Email     string   `json:"email"`
	Broker    string   `json:"broker"`
	Exchanges []string `json:"exchanges"`
}
