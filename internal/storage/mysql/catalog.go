package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"travel_planner/internal/domain"
)

func (r *Repo) GetAttraction(ctx context.Context, id int64) (domain.Attraction, error) {
	a, err := scanAttraction(r.db.QueryRowContext(ctx, getAttractionSQL, id))
	if err != nil {
		return domain.Attraction{}, mapErr(err)
	}
	return a, nil
}

func (r *Repo) FindAttractionsByDestination(ctx context.Context, name string, limit int, order domain.SortOrder) ([]domain.Attraction, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(findAttractionsByDestinationSQL, orderSQL(order)), name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Attraction{}
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) FindDestinationsByName(ctx context.Context, query string, limit int, order domain.SortOrder) ([]domain.Destination, error) {
	return r.queryDestinations(ctx, fmt.Sprintf(findDestinationsByNameSQL, orderSQL(order)), escapeLike(query), limit)
}

func (r *Repo) ListDestinationsPage(ctx context.Context, offset, limit int) ([]domain.Destination, error) {
	return r.queryDestinations(ctx, listDestinationsPageSQL, limit, offset)
}

func (r *Repo) queryDestinations(ctx context.Context, q string, args ...any) ([]domain.Destination, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Destination{}
	for rows.Next() {
		var d domain.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.ImageURL, &d.Description); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, listActivitiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Activity{}
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.ImageURL, &a.Description); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) UpsertDestination(ctx context.Context, d domain.Destination) error {
	_, err := r.db.ExecContext(ctx, upsertDestinationSQL, d.ID, d.Name, d.ImageURL, d.Description)
	return err
}

func (r *Repo) UpsertAttraction(ctx context.Context, a domain.Attraction) error {
	_, err := r.db.ExecContext(ctx, upsertAttractionSQL,
		a.ID,
		a.DestinationID,
		a.Name,
		a.Description,
		a.Rating,
		a.VisitDuration,
		a.BestTimeToVisit,
		a.ImageURL,
	)
	return mapErr(err)
}

func (r *Repo) UpsertActivity(ctx context.Context, a domain.Activity) error {
	_, err := r.db.ExecContext(ctx, upsertActivitySQL, a.ID, a.Name, a.ImageURL, a.Description)
	return err
}

func scanAttraction(s scanner) (domain.Attraction, error) {
	var (
		a       domain.Attraction
		summary sql.NullString
	)
	if err := s.Scan(
		&a.ID,
		&a.DestinationID,
		&a.DestinationName,
		&a.Name,
		&a.Description,
		&a.Rating,
		&a.VisitDuration,
		&a.BestTimeToVisit,
		&a.ImageURL,
		&summary,
		&a.TotalReviews,
	); err != nil {
		return domain.Attraction{}, err
	}
	a.ReviewSummary = ptrNullString(summary)
	return a, nil
}
