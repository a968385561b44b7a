package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"travel_planner/internal/domain"
)

const (
	errDuplicateEntry = 1062
	errNoReferenced   = 1452 // FK parent row missing
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptrNullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	x := v.Int64
	return &x
}

func ptrNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// mapErr turns driver errors the domain cares about into sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDuplicateEntry:
			return domain.ErrConflict
		case errNoReferenced:
			return domain.ErrNotFound
		}
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func orderSQL(o domain.SortOrder) string {
	if o == domain.SortDesc {
		return "DESC"
	}
	return "ASC"
}

type scanner interface {
	Scan(dest ...any) error
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- reviews ----

func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Review{}, err
	}
	defer func() { _ = tx.Rollback() }()

	label, score := domain.SentimentColumns(rv.Sentiment)
	res, err := tx.ExecContext(ctx, insertReviewSQL,
		rv.AttractionID,
		valInt64(rv.UserID),
		rv.Content,
		rv.Rating,
		valStr(label),
		valInt(score),
	)
	if err != nil {
		return domain.Review{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Review{}, err
	}

	upd, err := tx.ExecContext(ctx, incrementReviewCountSQL, rv.AttractionID)
	if err != nil {
		return domain.Review{}, err
	}
	if n, err := upd.RowsAffected(); err == nil && n == 0 {
		return domain.Review{}, domain.ErrNotFound
	}

	out, err := scanReview(tx.QueryRowContext(ctx, getReviewSQL, id))
	if err != nil {
		return domain.Review{}, mapErr(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Review{}, err
	}
	return out, nil
}

func (r *Repo) ListReviews(ctx context.Context, attractionID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, attractionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdateSummary(ctx context.Context, attractionID int64, summary string) error {
	res, err := r.db.ExecContext(ctx, updateSummarySQL, summary, attractionID)
	if err != nil {
		return err
	}
	// RowsAffected is 0 when the text is unchanged, so existence needs its own check.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetAttraction(ctx, attractionID); err != nil {
			return err
		}
	}
	return nil
}

func scanReview(s scanner) (domain.Review, error) {
	var (
		rv     domain.Review
		userID sql.NullInt64
		label  sql.NullString
		score  sql.NullInt64
	)
	if err := s.Scan(
		&rv.ID,
		&rv.AttractionID,
		&userID,
		&rv.Content,
		&rv.Rating,
		&label,
		&score,
		&rv.CreatedAt,
	); err != nil {
		return domain.Review{}, err
	}
	rv.UserID = ptrNullInt64(userID)
	var scorePtr *int
	if score.Valid {
		s := int(score.Int64)
		scorePtr = &s
	}
	rv.Sentiment = domain.SentimentFromColumns(ptrNullString(label), scorePtr)
	return rv, nil
}
