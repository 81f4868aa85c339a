package domain

// Session is the authenticated identity of the current user. Token and
// Username are either both set or both empty.
type Session struct {
	Token    string
	Username string
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.Username != ""
}
