package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"travel_planner/internal/domain"
)

// CreateItinerary writes the itinerary and its ordered attraction rows in one transaction.
func (r *Repo) CreateItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	acts, err := json.Marshal(it.Activities)
	if err != nil {
		return domain.Itinerary{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Itinerary{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertItinerarySQL,
		valInt64(it.UserID),
		it.Destination,
		it.StartDate.Format("2006-01-02"),
		it.EndDate.Format("2006-01-02"),
		string(acts),
	)
	if err != nil {
		return domain.Itinerary{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Itinerary{}, err
	}
	for pos, aid := range it.AttractionIDs {
		if _, err := tx.ExecContext(ctx, insertItineraryAttractionSQL, id, aid, pos); err != nil {
			return domain.Itinerary{}, mapErr(err)
		}
	}

	out, err := r.loadItinerary(ctx, tx, tx.QueryRowContext(ctx, getItinerarySQL, id))
	if err != nil {
		return domain.Itinerary{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Itinerary{}, err
	}
	return out, nil
}

func (r *Repo) GetItinerary(ctx context.Context, id int64) (domain.Itinerary, error) {
	return r.loadItinerary(ctx, r.db, r.db.QueryRowContext(ctx, getItinerarySQL, id))
}

func (r *Repo) ListItinerariesByUser(ctx context.Context, userID int64) ([]domain.Itinerary, error) {
	out, err := r.scanItineraries(ctx, userID)
	if err != nil {
		return nil, err
	}
	// attraction ids are read after the cursor is closed so only one result set is open per conn
	for i := range out {
		ids, err := r.itineraryAttractions(ctx, r.db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].AttractionIDs = ids
	}
	return out, nil
}

func (r *Repo) scanItineraries(ctx context.Context, userID int64) ([]domain.Itinerary, error) {
	rows, err := r.db.QueryContext(ctx, listItinerariesByUserSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Itinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *Repo) loadItinerary(ctx context.Context, q querier, row *sql.Row) (domain.Itinerary, error) {
	it, err := scanItinerary(row)
	if err != nil {
		return domain.Itinerary{}, mapErr(err)
	}
	ids, err := r.itineraryAttractions(ctx, q, it.ID)
	if err != nil {
		return domain.Itinerary{}, err
	}
	it.AttractionIDs = ids
	return it, nil
}

func (r *Repo) itineraryAttractions(ctx context.Context, q querier, id int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, listItineraryAttractionsSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var aid int64
		if err := rows.Scan(&aid); err != nil {
			return nil, err
		}
		ids = append(ids, aid)
	}
	return ids, rows.Err()
}

func scanItinerary(s scanner) (domain.Itinerary, error) {
	var (
		it     domain.Itinerary
		userID sql.NullInt64
		acts   []byte
	)
	if err := s.Scan(&it.ID, &userID, &it.Destination, &it.StartDate, &it.EndDate, &acts, &it.CreatedAt); err != nil {
		return domain.Itinerary{}, err
	}
	it.UserID = ptrNullInt64(userID)
	it.Activities = []string{}
	if len(acts) > 0 {
		if err := json.Unmarshal(acts, &it.Activities); err != nil {
			return domain.Itinerary{}, err
		}
	}
	return it, nil
}
