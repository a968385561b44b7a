package mysql

import (
	"context"

	"travel_planner/internal/domain"
)

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.PasswordHash)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	return r.GetUserByID(ctx, id)
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getUser(ctx, getUserByUsernameSQL, username)
}

func (r *Repo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return r.getUser(ctx, getUserByIDSQL, id)
}

func (r *Repo) getUser(ctx context.Context, q string, arg any) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return u, nil
}
