package domain

// User is a registered account. PasswordHash is never the raw password.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// Identity is the per-request authenticated marker. The zero value means
// the request is anonymous.
type Identity struct {
	UserID string
	Email  string
}

func (i Identity) Present() bool { return i.UserID != "" }

// Anonymous is the absent identity.
var Anonymous = Identity{}
