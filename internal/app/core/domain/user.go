package domain

// User 使用者：與 Account 一對一 (Account.ID == User.ID)
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash string
}
