package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleStaff,
	domain.RoleManager,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string, organizationID int64) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       username,
		PasswordHash:   string(passwordHash),
		FullName:       fullName,
		Email:          username + "@" + emailDomainName,
		Role:           GenerateRandomRole(),
		OrganizationID: organizationID,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

// 三个常用班次，配合不同的工位组合出覆盖规则
var shiftCodes = []string{"MORNING", "AFTERNOON", "NIGHT"}
var shiftSpans = map[string][2]string{
	"MORNING":   {"08:00:00", "12:00:00"},
	"AFTERNOON": {"12:00:00", "18:00:00"},
	"NIGHT":     {"18:00:00", "23:00:00"},
}
var stations = []string{"前台", "机房", "热线"}

func GenerateRandomShiftCode() string {
	return shiftCodes[rand.Intn(len(shiftCodes))]
}

func GenerateRandomStation() string {
	return stations[rand.Intn(len(stations))]
}

// 为每个 (星期, 班次, 工位) 组合随机生成一部分覆盖规则
func GenerateRandomCoverageDayRules() []*domain.CoverageDayRule {
	rules := make([]*domain.CoverageDayRule, 0)
	for weekday := int32(0); weekday <= 6; weekday++ {
		for _, code := range shiftCodes {
			if rand.Intn(2) == 0 {
				continue
			}
			rules = append(rules, &domain.CoverageDayRule{
				Weekday:       weekday,
				ShiftCode:     code,
				Station:       GenerateRandomStation(),
				RequiredCount: int32(rand.Intn(3) + 1),
				IsActive:      true,
			})
		}
	}
	return rules
}

// 为某个月随机生成一批班次，staffIDs 为可被排班的员工池
func GenerateRandomMonthShifts(organizationID int64, month string, staffIDs []int64) []*domain.ShiftDefinition {
	shifts := make([]*domain.ShiftDefinition, 0)

	daysInMonth := 28
	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%s-%02d", month, day)
		for _, code := range shiftCodes {
			if rand.Intn(3) == 0 {
				continue
			}
			span := shiftSpans[code]
			shift := &domain.ShiftDefinition{
				OrganizationID: organizationID,
				Date:           date,
				ShiftCode:      code,
				StartTime:      span[0],
				EndTime:        span[1],
				Station:        GenerateRandomStation(),
				Assignments:    make([]domain.ShiftAssignment, 0),
			}

			assignedNum := rand.Intn(3) + 1
			for _, staffID := range GenerateRandomStaffSubset(staffIDs, assignedNum) {
				shift.Assignments = append(shift.Assignments, domain.ShiftAssignment{StaffID: staffID})
			}

			shifts = append(shifts, shift)
		}
	}

	return shifts
}

// 使用 Fisher-Yates 洗牌算法从员工池中取一个随机子集
func GenerateRandomStaffSubset(staffIDs []int64, n int) []int64 {
	idsCopy := append([]int64{}, staffIDs...) // 复制数组，避免修改原数组

	for i := 0; i < len(idsCopy)-1; i++ {
		j := rand.Intn(len(idsCopy)-i) + i
		idsCopy[i], idsCopy[j] = idsCopy[j], idsCopy[i]
	}

	if n > len(idsCopy) {
		n = len(idsCopy)
	}
	return idsCopy[:n]
}

var timeOffTypes = []domain.TimeOffType{
	domain.TimeOffVacation,
	domain.TimeOffSickLeave,
	domain.TimeOffOther,
}

// 随机生成一个落在该月内的请假请求
func GenerateRandomTimeOffRequest(staffID int64, month string) *domain.TimeOffRequest {
	startDay := rand.Intn(20) + 1
	endDay := startDay + rand.Intn(5)

	return &domain.TimeOffRequest{
		StaffID:   staffID,
		Type:      timeOffTypes[rand.Intn(len(timeOffTypes))],
		StartDate: fmt.Sprintf("%s-%02d", month, startDay),
		EndDate:   fmt.Sprintf("%s-%02d", month, endDay),
		Status:    domain.TimeOffPending,
		Notes:     "随机生成的请假请求" + GenerateRandomID(3, 3),
		CreatedBy: staffID,
	}
}

// 为员工随机生成排班约束
func GenerateRandomStaffScheduleRule(staffID, organizationID int64) *domain.StaffScheduleRule {
	allowed := make([]string, 0)
	for _, code := range shiftCodes {
		if rand.Intn(2) == 0 {
			allowed = append(allowed, code)
		}
	}

	var maxConsecutive *int32
	if rand.Intn(2) == 0 {
		n := int32(rand.Intn(5) + 3)
		maxConsecutive = &n
	}

	return &domain.StaffScheduleRule{
		StaffID:            staffID,
		OrganizationID:     organizationID,
		AllowedShiftCodes:  allowed,
		RotationMode:       domain.RotationNone,
		PreferredDaysOff:   GenerateRandomPreferredDaysOff(),
		MaxConsecutiveDays: maxConsecutive,
		RequireWeekendOff:  rand.Intn(2) == 0,
	}
}

// 用 Fisher-Yates 洗牌算法来生成随机的偏好休息日
func GenerateRandomPreferredDaysOff() []int32 {
	days := []int32{0, 1, 2, 3, 4, 5, 6}

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(3)

	return days[:n]
}
