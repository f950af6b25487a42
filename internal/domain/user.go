package domain

import (
	"time"
)

type Role string

const (
	RoleStaff   Role = "员工"
	RoleManager Role = "排班经理"
	RoleAdmin   Role = "管理员"
)

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	OrganizationID int64     `json:"organizationID"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
