package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// 列表字段（允许班次、偏好休息日）以 JSON 文本落库，读写时在这里编解码

func (r *Repository) GetStaffScheduleRule(staffID int64) (*domain.StaffScheduleRule, error) {
	query := `
		SELECT organization_id, allowed_shift_codes, rotation_mode, preferred_days_off, max_consecutive_days, require_weekend_off, created_at, version
		FROM staff_schedule_rules WHERE staff_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rule := &domain.StaffScheduleRule{
		StaffID: staffID,
	}

	var allowedCodes, preferredDaysOff []byte
	dst := []any{&rule.OrganizationID, &allowedCodes, &rule.RotationMode, &preferredDaysOff, &rule.MaxConsecutiveDays, &rule.RequireWeekendOff, &rule.CreatedAt, &rule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, staffID).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(allowedCodes, &rule.AllowedShiftCodes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(preferredDaysOff, &rule.PreferredDaysOff); err != nil {
		return nil, err
	}

	return rule, nil
}

func (r *Repository) GetStaffScheduleRulesByOrganization(organizationID int64) ([]*domain.StaffScheduleRule, error) {
	query := `
		SELECT staff_id, allowed_shift_codes, rotation_mode, preferred_days_off, max_consecutive_days, require_weekend_off, created_at, version
		FROM staff_schedule_rules WHERE organization_id = $1
		ORDER BY staff_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]*domain.StaffScheduleRule, 0)
	for rows.Next() {
		rule := &domain.StaffScheduleRule{OrganizationID: organizationID}
		var allowedCodes, preferredDaysOff []byte
		dst := []any{&rule.StaffID, &allowedCodes, &rule.RotationMode, &preferredDaysOff, &rule.MaxConsecutiveDays, &rule.RequireWeekendOff, &rule.CreatedAt, &rule.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(allowedCodes, &rule.AllowedShiftCodes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(preferredDaysOff, &rule.PreferredDaysOff); err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// UpsertStaffScheduleRule 按员工插入或更新排班约束，未变更的字段由调用方保持原值传入
func (r *Repository) UpsertStaffScheduleRule(rule *domain.StaffScheduleRule) error {
	allowedCodes, err := json.Marshal(rule.AllowedShiftCodes)
	if err != nil {
		return err
	}
	preferredDaysOff, err := json.Marshal(rule.PreferredDaysOff)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO staff_schedule_rules (staff_id, organization_id, allowed_shift_codes, rotation_mode, preferred_days_off, max_consecutive_days, require_weekend_off)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (staff_id) DO UPDATE
		SET
			allowed_shift_codes = EXCLUDED.allowed_shift_codes,
			rotation_mode = EXCLUDED.rotation_mode,
			preferred_days_off = EXCLUDED.preferred_days_off,
			max_consecutive_days = EXCLUDED.max_consecutive_days,
			require_weekend_off = EXCLUDED.require_weekend_off,
			version = staff_schedule_rules.version + 1
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{rule.StaffID, rule.OrganizationID, allowedCodes, rule.RotationMode, preferredDaysOff, rule.MaxConsecutiveDays, rule.RequireWeekendOff}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&rule.CreatedAt, &rule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetOrganizationScheduleRule(organizationID int64) (*domain.OrganizationScheduleRule, error) {
	query := `
		SELECT weekend_definition, enforce_weekend_off_hard, rotation_enabled, created_at, version
		FROM organization_schedule_rules WHERE organization_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rule := &domain.OrganizationScheduleRule{
		OrganizationID: organizationID,
	}

	dst := []any{&rule.WeekendDefinition, &rule.EnforceWeekendOffHard, &rule.RotationEnabled, &rule.CreatedAt, &rule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, organizationID).Scan(dst...); err != nil {
		return nil, err
	}

	return rule, nil
}

func (r *Repository) UpsertOrganizationScheduleRule(rule *domain.OrganizationScheduleRule) error {
	query := `
		INSERT INTO organization_schedule_rules (organization_id, weekend_definition, enforce_weekend_off_hard, rotation_enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id) DO UPDATE
		SET
			weekend_definition = EXCLUDED.weekend_definition,
			enforce_weekend_off_hard = EXCLUDED.enforce_weekend_off_hard,
			rotation_enabled = EXCLUDED.rotation_enabled,
			version = organization_schedule_rules.version + 1
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{rule.OrganizationID, rule.WeekendDefinition, rule.EnforceWeekendOffHard, rule.RotationEnabled}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&rule.CreatedAt, &rule.Version); err != nil {
		return err
	}

	return nil
}
