package auth

// RoleAdmin is the role string that grants admin capability
const RoleAdmin = "ADMIN"

// User is the cached user record returned by the auth endpoints
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// FullName returns "First Last"
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session is the authenticated identity of this client: a bearer token
// and the user it was issued to. The zero value is the absent session.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Present reports whether both halves of the session are set. A user
// record without an ID is not a user.
func (s Session) Present() bool {
	return s.Token != "" && s.User != nil && s.User.ID != ""
}
