package userapimodels

import (
	"labstock-backend/models"
	apimodels "labstock-backend/models/api"
	dbmodels "labstock-backend/models/db"
	"net/mail"
	"time"

	"github.com/pkg/errors"
)

type PersonalData struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Dob           *time.Time `json:"dob"`
	ProfileImgUrl string     `json:"profileImgUrl"`
}

type ProfessionalData struct {
	Department  string `json:"department"`
	Designation string `json:"designation"`
	EmpID       string `json:"empId"`
}

type UserData struct {
	Role         models.UserRole  `json:"role"`
	Personal     PersonalData     `json:"personal"`
	Professional ProfessionalData `json:"professional"`
	LabID        string           `json:"labdetails"`
}

func (u UserData) Validate() error {
	if !u.Role.IsValid() {
		return errors.Errorf("unknown role %q", u.Role)
	}
	if _, err := mail.ParseAddress(u.Personal.Email); err != nil {
		return errors.New("email has invalid format")
	}
	if u.Role == models.LabUserRole && u.LabID == "" {
		return errors.New("lab is required for lab users")
	}
	return nil
}

// UserCreateData приглашение пользователя администратором
type UserCreateData struct {
	UserData
	Password string `json:"password"`
}

func (u UserCreateData) Validate() error {
	if err := u.UserData.Validate(); err != nil {
		return err
	}
	if len(u.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ProfileData пользователь может менять только свои персональные и рабочие данные
type ProfileData struct {
	Personal     PersonalData     `json:"personal"`
	Professional ProfessionalData `json:"professional"`
}

type UserView struct {
	UserData
	ID       string `json:"id"`
	RoleName string `json:"roleName"`
	LabName  string `json:"labName,omitempty"`
}

func UserConvert(rec dbmodels.User) UserView {
	view := UserView{
		UserData: UserData{
			Role: rec.Role,
			Personal: PersonalData{
				Name:          rec.Personal.Name,
				Email:         rec.Personal.Email,
				Phone:         rec.Personal.Phone,
				Dob:           rec.Personal.Dob,
				ProfileImgUrl: rec.Personal.ProfileImgUrl,
			},
			Professional: ProfessionalData{
				Department:  rec.Professional.Department,
				Designation: rec.Professional.Designation,
				EmpID:       rec.Professional.EmpID,
			},
			LabID: rec.GetLabID(),
		},
		ID:       rec.ID,
		RoleName: rec.Role.ToHuman(),
	}
	if rec.Lab != nil {
		view.LabName = rec.Lab.LabName
	}
	return view
}

type UserFilter struct {
	apimodels.Pagination
	Role   models.UserRole `json:"role"`
	LabID  string          `json:"labId"`
	Search string          `json:"search"`
}
