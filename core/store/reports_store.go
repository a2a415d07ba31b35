package store

import (
	"context"
	"fmt"
)

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type RootCauseCount struct {
	RootCause string `json:"root_cause"`
	Count     int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type AssigneeCount struct {
	Assignee string `json:"assignee"`
	Count    int64  `json:"count"`
}

// ReportsStore is the read-only aggregation surface behind the dashboards.
// Every query reflects the persisted state at call time; nothing is cached.
type ReportsStore interface {
	CountByMonth(ctx context.Context) ([]MonthCount, error)
	CountByRootCause(ctx context.Context) ([]RootCauseCount, error)
	// CountByStatus groups over action item status, not incident status.
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByAssignee(ctx context.Context) ([]AssigneeCount, error)
}

type reportsStore struct {
	db *DB
}

func NewReportsStore(db *DB) ReportsStore {
	return &reportsStore{db: db}
}

func (s *reportsStore) CountByMonth(ctx context.Context) ([]MonthCount, error) {
	query := fmt.Sprintf(`
		SELECT %s AS month, COUNT(*) AS count
		FROM incidents
		GROUP BY month
		ORDER BY month ASC`, s.db.MonthExpr("created_at"))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		res = append(res, mc)
	}
	return res, rows.Err()
}

func (s *reportsStore) CountByRootCause(ctx context.Context) ([]RootCauseCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT root_cause, COUNT(*) AS count
		FROM incidents
		GROUP BY root_cause
		ORDER BY count DESC, root_cause ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []RootCauseCount
	for rows.Next() {
		var rc RootCauseCount
		if err := rows.Scan(&rc.RootCause, &rc.Count); err != nil {
			return nil, err
		}
		res = append(res, rc)
	}
	return res, rows.Err()
}

func (s *reportsStore) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) AS count
		FROM action_items
		GROUP BY status
		ORDER BY status ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		res = append(res, sc)
	}
	return res, rows.Err()
}

func (s *reportsStore) CountByAssignee(ctx context.Context) ([]AssigneeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT assigned_to AS assignee, COUNT(*) AS count
		FROM action_items
		GROUP BY assigned_to
		ORDER BY count DESC, assignee ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []AssigneeCount
	for rows.Next() {
		var ac AssigneeCount
		if err := rows.Scan(&ac.Assignee, &ac.Count); err != nil {
			return nil, err
		}
		res = append(res, ac)
	}
	return res, rows.Err()
}
