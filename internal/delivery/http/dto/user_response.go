package dto

import (
	"time"

	"github.com/xebia-france/xskillz-v2/internal/domain/user"
)

const dateLayout = "2006-01-02"

type UserResponse struct {
	ID                int64   `json:"id"`
	ReadableID        string  `json:"readable_id"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	Address           *string `json:"address"`
	Diploma           *string `json:"diploma"`
	Phone             *string `json:"phone"`
	EmployeeStartDate *string `json:"employee_start_date"`
	ManagerID         *int64  `json:"manager_id"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		ReadableID:        u.ReadableID(),
		Email:             u.Email,
		Name:              u.Name,
		Address:           u.Address,
		Diploma:           formatDate(u.Diploma),
		Phone:             u.Phone,
		EmployeeStartDate: formatDate(u.EmployeeStartDate),
		ManagerID:         u.ManagerID,
	}
}

func NewUserResponses(users []user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

type WebUserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ManagementRowResponse struct {
	ManagerID   *int64  `json:"manager_id"`
	ManagerName *string `json:"manager_name"`
	UserID      int64   `json:"user_id"`
	UserName    string  `json:"user_name"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
