package ticketdb

import (
	"context"
	"time"
)

const createTicket = `-- name: CreateTicket :one
INSERT INTO tickets (title, description, status, user_id, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

// CreateTicketParams はCreateTicketの引数。
type CreateTicketParams struct {
	Title       string
	Description string
	Status      string
	UserID      int64
	CreatedAt   time.Time
}

// CreateTicket はチケットを1件追加し、採番されたIDを返す。
func (q *Queries) CreateTicket(ctx context.Context, arg CreateTicketParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createTicket,
		arg.Title,
		arg.Description,
		arg.Status,
		arg.UserID,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listTicketsByUserID = `-- name: ListTicketsByUserID :many
SELECT id, title, description, status, user_id, created_at
FROM tickets
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`

// ListTicketsByUserID はユーザーのチケットを作成日時の新しい順に取得する。
func (q *Queries) ListTicketsByUserID(ctx context.Context, userID int64) ([]Ticket, error) {
	rows, err := q.db.QueryContext(ctx, listTicketsByUserID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Ticket
	for rows.Next() {
		var i Ticket
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Description,
			&i.Status,
			&i.UserID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTicket = `-- name: GetTicket :one
SELECT id, title, description, status, user_id, created_at
FROM tickets
WHERE id = $1 AND user_id = $2
`

// GetTicketParams はGetTicketの引数。
type GetTicketParams struct {
	ID     int64
	UserID int64
}

// GetTicket は所有者が一致するチケットを1件取得する。
// 存在しない場合と所有者が異なる場合はどちらも sql.ErrNoRows になる。
func (q *Queries) GetTicket(ctx context.Context, arg GetTicketParams) (Ticket, error) {
	row := q.db.QueryRowContext(ctx, getTicket, arg.ID, arg.UserID)
	var i Ticket
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.Status,
		&i.UserID,
		&i.CreatedAt,
	)
	return i, err
}

const updateTicket = `-- name: UpdateTicket :execrows
UPDATE tickets
SET title = $1, description = $2, status = $3
WHERE id = $4 AND user_id = $5
`

// UpdateTicketParams はUpdateTicketの引数。
type UpdateTicketParams struct {
	Title       string
	Description string
	Status      string
	ID          int64
	UserID      int64
}

// UpdateTicket は所有者が一致するチケットのタイトル、説明、状態を上書きし、更新した行数を返す。
func (q *Queries) UpdateTicket(ctx context.Context, arg UpdateTicketParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTicket,
		arg.Title,
		arg.Description,
		arg.Status,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTicket = `-- name: DeleteTicket :execrows
DELETE FROM tickets
WHERE id = $1 AND user_id = $2
`

// DeleteTicketParams はDeleteTicketの引数。
type DeleteTicketParams struct {
	ID     int64
	UserID int64
}

// DeleteTicket は所有者が一致するチケットを削除し、削除した行数を返す。
func (q *Queries) DeleteTicket(ctx context.Context, arg DeleteTicketParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTicket, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
