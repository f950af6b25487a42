package seed

import (
	"log/slog"

	"github.com/workshift-dev/roster-compliance/backend/internal/config"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
	"github.com/workshift-dev/roster-compliance/backend/internal/repository"
	"github.com/workshift-dev/roster-compliance/backend/internal/utils"
)

// SeedDemoData 搭建一个完整的演示组织：
// 组织、员工、组织规则、员工约束、覆盖规则、整月班次和若干请假请求，
// 插入后即可直接对该月执行排班校验
func SeedDemoData(r *repository.Repository, cfg *config.Config, month string, staffNum int) {
	organization := &domain.Organization{
		Name: "演示组织" + utils.GenerateRandomID(3, 3),
	}
	if err := r.CreateOrganization(organization); err != nil {
		slog.Error("插入组织失败", "error", err)
		return
	}

	// 插入员工
	staffIDs := make([]int64, 0, staffNum)
	for i := 0; i < staffNum; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, organization.ID)
		if err != nil {
			slog.Error("生成随机用户失败", "error", err)
			continue
		}
		user.Role = domain.RoleStaff

		if err := r.CreateUser(user); err != nil {
			slog.Error("插入用户失败", "error", err)
			continue
		}
		staffIDs = append(staffIDs, user.ID)
	}

	if len(staffIDs) == 0 {
		slog.Error("没有插入任何员工，停止搭建演示数据")
		return
	}

	// 组织规则
	orgRule := &domain.OrganizationScheduleRule{
		OrganizationID:    organization.ID,
		WeekendDefinition: domain.WeekendSatSun,
	}
	if err := r.UpsertOrganizationScheduleRule(orgRule); err != nil {
		slog.Error("插入组织规则失败", "error", err)
		return
	}

	// 员工约束
	for _, staffID := range staffIDs {
		rule := utils.GenerateRandomStaffScheduleRule(staffID, organization.ID)
		if err := r.UpsertStaffScheduleRule(rule); err != nil {
			slog.Error("插入员工约束失败", "error", err)
		}
	}

	// 覆盖规则
	if err := r.ReplaceCoverageDayRules(organization.ID, utils.GenerateRandomCoverageDayRules()); err != nil {
		slog.Error("插入覆盖规则失败", "error", err)
		return
	}

	// 整月班次
	shiftCnt := 0
	for _, shift := range utils.GenerateRandomMonthShifts(organization.ID, month, staffIDs) {
		if err := r.CreateShift(shift); err != nil {
			slog.Error("插入班次失败", "error", err)
			continue
		}
		shiftCnt++
	}

	// 请假请求，大约一半员工提交
	timeOffCnt := 0
	for i, staffID := range staffIDs {
		if i%2 != 0 {
			continue
		}
		request := utils.GenerateRandomTimeOffRequest(staffID, month)
		if err := r.CreateTimeOffRequest(request); err != nil {
			slog.Error("插入请假请求失败", "error", err)
			continue
		}
		timeOffCnt++
	}

	slog.Info("演示数据搭建完成",
		slog.Int64("organization_id", organization.ID),
		slog.String("month", month),
		slog.Int("staff", len(staffIDs)),
		slog.Int("shifts", shiftCnt),
		slog.Int("time_off_requests", timeOffCnt),
	)
}
