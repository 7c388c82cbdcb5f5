package identity

// User is a registered wallet owner. Exactly one wallet is created per user,
// atomically with the user row.
type User struct {
	ID           int64
	Name         string
	Country      string
	City         string
	Login        string
	PasswordHash []byte
}
