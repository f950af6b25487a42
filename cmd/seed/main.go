package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/config"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
	"github.com/workshift-dev/roster-compliance/backend/internal/repository"
	"github.com/workshift-dev/roster-compliance/backend/internal/seed"
	"github.com/workshift-dev/roster-compliance/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var organizationID int64
	var month string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机覆盖规则, 3: 插入随机整月班次, 4: 插入随机请假请求, 5: 搭建完整演示组织)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&organizationID, "organization-id", 0, "目标组织 ID")
	flag.StringVar(&month, "month", time.Now().Format(domain.MonthLayout), "目标月份 (YYYY-MM)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		slog.Error("月份格式应为 YYYY-MM", slog.String("month", month))
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}
		if organizationID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, organizationID)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入用户成功", slog.Int("count", n-cnt))
	case 2:
		if organizationID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}

		rules := utils.GenerateRandomCoverageDayRules()
		if err := repo.ReplaceCoverageDayRules(organizationID, rules); err != nil {
			slog.Error("无法插入覆盖规则", slog.String("error", err.Error()))
			return
		}

		slog.Info("插入覆盖规则成功", slog.Int("count", len(rules)))
	case 3:
		if organizationID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}

		// 取组织内所有员工作为可排班的员工池
		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}

		staffIDs := make([]int64, 0)
		for _, user := range users {
			if user.OrganizationID == organizationID {
				staffIDs = append(staffIDs, user.ID)
			}
		}
		if len(staffIDs) == 0 {
			slog.Error("该组织内没有任何员工", slog.Int64("organization_id", organizationID))
			return
		}

		cnt := 0
		for _, shift := range utils.GenerateRandomMonthShifts(organizationID, month, staffIDs) {
			if err := repo.CreateShift(shift); err != nil {
				slog.Error("无法插入班次", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入班次成功", slog.Int("count", cnt))
	case 4:
		if organizationID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, user := range users {
			if user.OrganizationID != organizationID {
				continue
			}

			request := utils.GenerateRandomTimeOffRequest(user.ID, month)
			if err := repo.CreateTimeOffRequest(request); err != nil {
				slog.Error("无法插入请假请求", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入请假请求成功", slog.Int("count", cnt))
	case 5:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		seed.SeedDemoData(repo, cfg, month, n)
	default:
		slog.Error("指定的操作非法")
	}
}
