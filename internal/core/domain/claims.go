package domain

// Claims is the payload signed into an access token. Subject is the username
// of the authenticated account; timestamps are UTC epoch seconds.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  int64
	ExpiresAt int64
}
