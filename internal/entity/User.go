package entity

// User is the signed-in human as reported by the identity provider.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl"`
	// IDToken is redeemed against the secondary API; it never leaves the process.
	IDToken string `json:"-"`
}

const DefaultDisplayName = "Usuario"

func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Email != "" {
		return u.Email
	}
	return DefaultDisplayName
}
