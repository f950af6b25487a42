package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func (r *Repository) CreateTimeOffRequest(req *domain.TimeOffRequest) error {
	query := `
		INSERT INTO time_off_requests (staff_id, type, start_date, end_date, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{req.StaffID, req.Type, req.StartDate, req.EndDate, req.Status, req.Notes, req.CreatedBy}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&req.ID, &req.CreatedAt, &req.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetTimeOffRequestByID(id int64) (*domain.TimeOffRequest, error) {
	query := `
		SELECT staff_id, type, start_date, end_date, status, notes, created_by, decided_by, day_count, created_at, version
		FROM time_off_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	req := &domain.TimeOffRequest{
		ID: id,
	}

	var startDate, endDate time.Time
	dst := []any{&req.StaffID, &req.Type, &startDate, &endDate, &req.Status, &req.Notes, &req.CreatedBy, &req.DecidedBy, &req.DayCount, &req.CreatedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	req.StartDate = startDate.Format(domain.DateLayout)
	req.EndDate = endDate.Format(domain.DateLayout)

	return req, nil
}

// GetTimeOffRequests 列出全部请假请求，status 为空串时不过滤
func (r *Repository) GetTimeOffRequests(status domain.TimeOffStatus) ([]*domain.TimeOffRequest, error) {
	query := `
		SELECT id, staff_id, type, start_date, end_date, status, notes, created_by, decided_by, day_count, created_at, version
		FROM time_off_requests
		WHERE $1 = '' OR status = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTimeOffRequests(rows)
}

// GetTimeOffRequestsIntersectingMonth 返回请假区间与该月有交集的所有请求，
// 供校验快照加载使用
func (r *Repository) GetTimeOffRequestsIntersectingMonth(organizationID int64, month string) ([]*domain.TimeOffRequest, error) {
	query := `
		SELECT t.id, t.staff_id, t.type, t.start_date, t.end_date, t.status, t.notes, t.created_by, t.decided_by, t.day_count, t.created_at, t.version
		FROM time_off_requests t
		JOIN users u ON t.staff_id = u.id
		WHERE u.organization_id = $1
			AND t.start_date <= (date_trunc('month', to_date($2, 'YYYY-MM')) + interval '1 month - 1 day')::date
			AND t.end_date >= to_date($2, 'YYYY-MM')
		ORDER BY t.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTimeOffRequests(rows)
}

// UpdateTimeOffRequestStatus 持久化一次审批转移，乐观锁防止并发重复审批
func (r *Repository) UpdateTimeOffRequestStatus(req *domain.TimeOffRequest) error {
	query := `
		UPDATE time_off_requests
		SET
			status = $1,
			decided_by = $2,
			day_count = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{req.Status, req.DecidedBy, req.DayCount, req.ID, req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&req.Version); err != nil {
		return err
	}

	return nil
}

func scanTimeOffRequests(rows *sql.Rows) ([]*domain.TimeOffRequest, error) {
	requests := make([]*domain.TimeOffRequest, 0)
	for rows.Next() {
		req := &domain.TimeOffRequest{}
		var startDate, endDate time.Time
		dst := []any{&req.ID, &req.StaffID, &req.Type, &startDate, &endDate, &req.Status, &req.Notes, &req.CreatedBy, &req.DecidedBy, &req.DayCount, &req.CreatedAt, &req.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		req.StartDate = startDate.Format(domain.DateLayout)
		req.EndDate = endDate.Format(domain.DateLayout)
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
