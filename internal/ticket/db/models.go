package ticketdb

import "time"

// Ticket はticketsテーブルの1行。
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      string
	UserID      int64
	CreatedAt   time.Time
}
