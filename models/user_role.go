package models

type UserRole string

const (
	AdminRole        UserRole = "admin"
	StockManagerRole UserRole = "stock_manager"
	LabUserRole      UserRole = "user"
)

var roleHumanName = map[UserRole]string{
	AdminRole:        "Администратор",
	StockManagerRole: "Заведующий складом",
	LabUserRole:      "Сотрудник лаборатории",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

// CanManageStock роли, которым доступны склад и согласование заявок
func (r UserRole) CanManageStock() bool {
	return r == AdminRole || r == StockManagerRole
}

const SystemUser = "Система"
