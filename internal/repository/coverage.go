package repository

import (
	"context"
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func (r *Repository) GetCoverageDayRules(organizationID int64) ([]*domain.CoverageDayRule, error) {
	query := `
		SELECT id, weekday, shift_code, station, required_count, is_active, created_at, version
		FROM coverage_day_rules
		WHERE organization_id = $1
		ORDER BY weekday, shift_code, station
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]*domain.CoverageDayRule, 0)
	for rows.Next() {
		rule := &domain.CoverageDayRule{OrganizationID: organizationID}
		dst := []any{&rule.ID, &rule.Weekday, &rule.ShiftCode, &rule.Station, &rule.RequiredCount, &rule.IsActive, &rule.CreatedAt, &rule.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// ReplaceCoverageDayRules 全量替换组织的覆盖规则：
// 在一个事务内先删除原有的全部规则，再插入新的规则集（替换而不是合并）
func (r *Repository) ReplaceCoverageDayRules(organizationID int64, rules []*domain.CoverageDayRule) error {
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
		DELETE FROM coverage_day_rules WHERE organization_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, organizationID); err != nil {
		return err
	}

	for i := range rules {
		query = `
			INSERT INTO coverage_day_rules (organization_id, weekday, shift_code, station, required_count, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, version
		`
		params := []any{organizationID, rules[i].Weekday, rules[i].ShiftCode, rules[i].Station, rules[i].RequiredCount, rules[i].IsActive}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&rules[i].ID, &rules[i].CreatedAt, &rules[i].Version); err != nil {
			return err
		}
		rules[i].OrganizationID = organizationID
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetCoverageDateOverrides(organizationID int64, from, to string) ([]*domain.CoverageDateOverride, error) {
	query := `
		SELECT id, date, shift_code, station, required_count, reason, created_at, version
		FROM coverage_date_overrides
		WHERE organization_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, shift_code, station
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make([]*domain.CoverageDateOverride, 0)
	for rows.Next() {
		override := &domain.CoverageDateOverride{OrganizationID: organizationID}
		var date time.Time
		dst := []any{&override.ID, &date, &override.ShiftCode, &override.Station, &override.RequiredCount, &override.Reason, &override.CreatedAt, &override.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		override.Date = date.Format(domain.DateLayout)
		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return overrides, nil
}

func (r *Repository) CreateCoverageDateOverride(override *domain.CoverageDateOverride) error {
	query := `
		INSERT INTO coverage_date_overrides (organization_id, date, shift_code, station, required_count, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{override.OrganizationID, override.Date, override.ShiftCode, override.Station, override.RequiredCount, override.Reason}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&override.ID, &override.CreatedAt, &override.Version); err != nil {
		return err
	}

	return nil
}
