package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// GetMonthSchedule 一次性加载 (组织, 月份) 内的所有班次及其排班记录
func (r *Repository) GetMonthSchedule(organizationID int64, month string) (*domain.MonthSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			s.id,
			s.date,
			s.shift_code,
			s.start_time,
			s.end_time,
			s.station,
			s.created_at,
			s.version,
			sa.id,
			sa.staff_id
		FROM shifts s
		LEFT JOIN shift_assignments sa ON s.id = sa.shift_id
		WHERE s.organization_id = $1 AND to_char(s.date, 'YYYY-MM') = $2
		ORDER BY s.id, sa.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shiftsMap := make(map[int64]*domain.ShiftDefinition)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			Date      time.Time
			ShiftCode string
			StartTime string
			EndTime   string
			Station   string
			CreatedAt time.Time
			Version   int32

			AssignmentID sql.NullInt64
			StaffID      sql.NullInt64
		}

		dst := []any{
			&row.ID,
			&row.Date,
			&row.ShiftCode,
			&row.StartTime,
			&row.EndTime,
			&row.Station,
			&row.CreatedAt,
			&row.Version,
			&row.AssignmentID,
			&row.StaffID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		shift, exists := shiftsMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个班次，需要在 map 中初始化这个班次
			shift = &domain.ShiftDefinition{
				ID:             row.ID,
				OrganizationID: organizationID,
				Date:           row.Date.Format(domain.DateLayout),
				ShiftCode:      row.ShiftCode,
				StartTime:      row.StartTime,
				EndTime:        row.EndTime,
				Station:        row.Station,
				Assignments:    make([]domain.ShiftAssignment, 0),
				CreatedAt:      row.CreatedAt,
				Version:        row.Version,
			}
			shiftsMap[row.ID] = shift
			order = append(order, row.ID)
		}

		// 如果 AssignmentID 为空，则表示这个班次还没有任何排班记录
		if !row.AssignmentID.Valid {
			continue
		}

		shift.Assignments = append(shift.Assignments, domain.ShiftAssignment{
			ID:      row.AssignmentID.Int64,
			ShiftID: row.ID,
			StaffID: row.StaffID.Int64,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	schedule := &domain.MonthSchedule{
		OrganizationID: organizationID,
		Month:          month,
		Shifts:         make([]*domain.ShiftDefinition, 0, len(order)),
	}
	for _, id := range order {
		schedule.Shifts = append(schedule.Shifts, shiftsMap[id])
	}

	return schedule, nil
}

func (r *Repository) CreateShift(shift *domain.ShiftDefinition) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shifts (organization_id, date, shift_code, start_time, end_time, station)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`
	params := []any{shift.OrganizationID, shift.Date, shift.ShiftCode, shift.StartTime, shift.EndTime, shift.Station}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
		return err
	}

	for i := range shift.Assignments {
		query = `
			INSERT INTO shift_assignments (shift_id, staff_id)
			VALUES ($1, $2)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, shift.ID, shift.Assignments[i].StaffID).Scan(&shift.Assignments[i].ID); err != nil {
			return err
		}
		shift.Assignments[i].ShiftID = shift.ID
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftByID(id int64) (*domain.ShiftDefinition, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT organization_id, date, shift_code, start_time, end_time, station, created_at, version
		FROM shifts WHERE id = $1
	`

	shift := &domain.ShiftDefinition{
		ID:          id,
		Assignments: make([]domain.ShiftAssignment, 0),
	}

	var date time.Time
	dst := []any{&shift.OrganizationID, &date, &shift.ShiftCode, &shift.StartTime, &shift.EndTime, &shift.Station, &shift.CreatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	shift.Date = date.Format(domain.DateLayout)

	query = `
		SELECT id, staff_id FROM shift_assignments WHERE shift_id = $1 ORDER BY id
	`
	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		assignment := domain.ShiftAssignment{ShiftID: id}
		if err := rows.Scan(&assignment.ID, &assignment.StaffID); err != nil {
			return nil, err
		}
		shift.Assignments = append(shift.Assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateShiftAssignment(assignment *domain.ShiftAssignment) error {
	query := `
		INSERT INTO shift_assignments (shift_id, staff_id)
		VALUES ($1, $2)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, assignment.ShiftID, assignment.StaffID).Scan(&assignment.ID); err != nil {
		return err
	}

	return nil
}

// DeleteShiftAssignment 把员工从班次上移除，员工本来不在该班次上时返回 sql.ErrNoRows
func (r *Repository) DeleteShiftAssignment(shiftID, staffID int64) error {
	query := `
		DELETE FROM shift_assignments WHERE shift_id = $1 AND staff_id = $2
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var id int64
	if err := r.dbpool.QueryRowContext(ctx, query, shiftID, staffID).Scan(&id); err != nil {
		return err
	}

	return nil
}
