package authdb

// User はusersテーブルの1行。
type User struct {
	ID           int64
	Email        string
	PasswordHash string
}
