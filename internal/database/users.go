package database

import (
	"context"

	"github.com/google/uuid"
)

const getUserByEmail = `
SELECT id, outlet_id, full_name, email, hashed_password, role
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(&i.ID, &i.OutletID, &i.FullName, &i.Email, &i.HashedPassword, &i.Role)
	return i, err
}

const getUserByID = `
SELECT id, outlet_id, full_name, email, hashed_password, role
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var i User
	err := row.Scan(&i.ID, &i.OutletID, &i.FullName, &i.Email, &i.HashedPassword, &i.Role)
	return i, err
}

const createUser = `
INSERT INTO users (outlet_id, full_name, email, hashed_password, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, outlet_id, full_name, email, hashed_password, role
`

type CreateUserParams struct {
	OutletID       uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	Role           string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.OutletID, arg.FullName, arg.Email, arg.HashedPassword, arg.Role)
	var i User
	err := row.Scan(&i.ID, &i.OutletID, &i.FullName, &i.Email, &i.HashedPassword, &i.Role)
	return i, err
}
