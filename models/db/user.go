package dbmodels

import (
	"labstock-backend/models"
	"strings"
	"time"
)

type User struct {
	BaseModel
	Role         models.UserRole `gorm:"type:varchar(30)"`
	PasswordHash string
	Personal     PersonalInfo     `gorm:"embedded;embeddedPrefix:personal_"`
	Professional ProfessionalInfo `gorm:"embedded;embeddedPrefix:professional_"`
	LabID        *string          `gorm:"type:varchar(36);index"`
	Lab          *Lab
}

type PersonalInfo struct {
	Name          string `gorm:"type:varchar(255)"`
	Email         string `gorm:"type:varchar(255);uniqueIndex"`
	Phone         string `gorm:"type:varchar(50)"`
	Dob           *time.Time
	ProfileImgUrl string
}

type ProfessionalInfo struct {
	Department  string `gorm:"type:varchar(255)"`
	Designation string `gorm:"type:varchar(255)"`
	EmpID       string `gorm:"type:varchar(100)"`
}

func (u User) GetLabID() string {
	if u.LabID == nil {
		return ""
	}
	return *u.LabID
}

func (u User) GetName() string {
	name := strings.TrimSpace(u.Personal.Name)
	if name == "" {
		return u.Personal.Email
	}
	return name
}
