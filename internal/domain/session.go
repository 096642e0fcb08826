package domain

import "time"

// Session is the externally issued credential this client forwards on
// every authenticated call. Expiry is enforced server-side; the client
// only reacts to rejection.
type Session struct {
	UserID  string
	Token   string
	Email   string
	SavedAt time.Time
}

func (s Session) Valid() bool {
	return s.UserID != "" && s.Token != ""
}
