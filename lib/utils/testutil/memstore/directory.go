package memstore

import (
	budgetstore "labstock-backend/lib/budget/store"
	labstore "labstock-backend/lib/lab/store"
	usersstore "labstock-backend/lib/users/store"
	"labstock-backend/models"
	labapimodels "labstock-backend/models/api/lab"
	userapimodels "labstock-backend/models/api/user"
	dbmodels "labstock-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (d *DB) BudgetStore(_ *gorm.DB) budgetstore.Provider {
	return budgetImpl{d: d}
}

func (d *DB) LabStore(_ *gorm.DB) labstore.Provider {
	return labImpl{d: d}
}

func (d *DB) UsersStore(_ *gorm.DB) usersstore.Provider {
	return usersImpl{d: d}
}

type budgetImpl struct {
	d *DB
}

func (i budgetImpl) Get(labID string) (*dbmodels.LabBudget, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec, ok := i.d.Budgets[labID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i budgetImpl) List() ([]dbmodels.LabBudget, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	return sortedValues(i.d.Budgets, func(a, b dbmodels.LabBudget) bool { return a.LabID < b.LabID }), nil
}

func (i budgetImpl) AddDecision(labID string, status models.RequestStatus) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("budget.AddDecision"); err != nil {
		return err
	}
	rec := i.d.Budgets[labID]
	rec.LabID = labID
	switch status {
	case models.RequestStatusApproved:
		rec.ApprovedCount++
	case models.RequestStatusPartiallyApproved:
		rec.PartiallyApprovedCount++
	case models.RequestStatusRejected:
		rec.RejectedCount++
	default:
		return errors.Errorf("неизвестный статус решения: %v", status)
	}
	rec.UpdatedAt = time.Now()
	i.d.Budgets[labID] = rec
	return nil
}

func (i budgetImpl) AddCompletion(labID string, amount decimal.Decimal) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("budget.AddCompletion"); err != nil {
		return err
	}
	rec := i.d.Budgets[labID]
	rec.LabID = labID
	rec.TotalSpent = rec.TotalSpent.Add(amount)
	rec.CompletedCount++
	rec.UpdatedAt = time.Now()
	i.d.Budgets[labID] = rec
	return nil
}

type labImpl struct {
	d *DB
}

func (i labImpl) Create(rec dbmodels.Lab) (string, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec.BaseModel = newBase(rec.BaseModel)
	i.d.Labs[rec.ID] = rec
	return rec.ID, nil
}

func (i labImpl) GetByID(id string) (*dbmodels.Lab, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec, ok := i.d.Labs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i labImpl) Update(id string, updMap map[string]interface{}) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec, ok := i.d.Labs[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	for key, value := range updMap {
		switch key {
		case "lab_name":
			rec.LabName = value.(string)
		case "department":
			rec.Department = value.(string)
		case "location":
			rec.Location = value.(string)
		case "systems":
			rec.Systems = value.(int)
		case "programmers":
			rec.Programmers = value.(dbmodels.Programmers)
		default:
			return unknownField(key)
		}
	}
	i.d.Labs[id] = rec
	return nil
}

func (i labImpl) Delete(id string) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	delete(i.d.Labs, id)
	return nil
}

func (i labImpl) filter(filter labapimodels.LabFilter) []dbmodels.Lab {
	result := []dbmodels.Lab{}
	for _, rec := range sortedValues(i.d.Labs, func(a, b dbmodels.Lab) bool { return a.LabName < b.LabName }) {
		if filter.Search != "" && !strings.Contains(strings.ToLower(rec.LabName+" "+rec.Department), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

func (i labImpl) ListCount(filter labapimodels.LabFilter) (int64, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	return int64(len(i.filter(filter))), nil
}

func (i labImpl) List(filter labapimodels.LabFilter) ([]dbmodels.Lab, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	offset, limit := filter.GetOffset()
	return page(i.filter(filter), offset, limit), nil
}

type usersImpl struct {
	d *DB
}

func (i usersImpl) Create(rec dbmodels.User) (string, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec.Personal.Email = strings.ToLower(strings.TrimSpace(rec.Personal.Email))
	for _, existing := range i.d.Users {
		if existing.Personal.Email == rec.Personal.Email {
			return "", errors.New("duplicate key value violates unique constraint (SQLSTATE 23505)")
		}
	}
	rec.BaseModel = newBase(rec.BaseModel)
	i.d.Users[rec.ID] = rec
	return rec.ID, nil
}

func (i usersImpl) withLab(rec dbmodels.User) *dbmodels.User {
	rec.Lab = nil
	if rec.LabID != nil {
		if lab, ok := i.d.Labs[*rec.LabID]; ok {
			rec.Lab = &lab
		}
	}
	return &rec
}

func (i usersImpl) GetByID(id string) (*dbmodels.User, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec, ok := i.d.Users[id]
	if !ok {
		return nil, nil
	}
	return i.withLab(rec), nil
}

func (i usersImpl) FindByEmail(email string) (*dbmodels.User, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, rec := range i.d.Users {
		if rec.Personal.Email == email {
			return i.withLab(rec), nil
		}
	}
	return nil, nil
}

func (i usersImpl) Update(id string, updMap map[string]interface{}) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec, ok := i.d.Users[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	for key, value := range updMap {
		switch key {
		case "role":
			rec.Role = value.(models.UserRole)
		case "lab_id":
			rec.LabID = value.(*string)
		case "password_hash":
			rec.PasswordHash = value.(string)
		case "personal_name":
			rec.Personal.Name = value.(string)
		case "personal_email":
			rec.Personal.Email = value.(string)
		case "personal_phone":
			rec.Personal.Phone = value.(string)
		case "personal_dob":
			rec.Personal.Dob = value.(*time.Time)
		case "personal_profile_img_url":
			rec.Personal.ProfileImgUrl = value.(string)
		case "professional_department":
			rec.Professional.Department = value.(string)
		case "professional_designation":
			rec.Professional.Designation = value.(string)
		case "professional_emp_id":
			rec.Professional.EmpID = value.(string)
		default:
			return unknownField(key)
		}
	}
	i.d.Users[id] = rec
	return nil
}

func (i usersImpl) Delete(id string) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	delete(i.d.Users, id)
	return nil
}

func (i usersImpl) filter(filter userapimodels.UserFilter) []dbmodels.User {
	result := []dbmodels.User{}
	for _, rec := range sortedValues(i.d.Users, func(a, b dbmodels.User) bool { return a.Personal.Name < b.Personal.Name }) {
		if filter.Role != "" && rec.Role != filter.Role {
			continue
		}
		if filter.LabID != "" && rec.GetLabID() != filter.LabID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(rec.Personal.Name+" "+rec.Personal.Email), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, *i.withLab(rec))
	}
	return result
}

func (i usersImpl) ListCount(filter userapimodels.UserFilter) (int64, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	return int64(len(i.filter(filter))), nil
}

func (i usersImpl) List(filter userapimodels.UserFilter) ([]dbmodels.User, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	offset, limit := filter.GetOffset()
	return page(i.filter(filter), offset, limit), nil
}

func (i usersImpl) ListByRoles(roles []models.UserRole) ([]dbmodels.User, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	result := []dbmodels.User{}
	for _, rec := range sortedValues(i.d.Users, func(a, b dbmodels.User) bool { return a.ID < b.ID }) {
		for _, role := range roles {
			if rec.Role == role {
				result = append(result, rec)
				break
			}
		}
	}
	return result, nil
}
