package models

// Session текущий пользователь и его лаборатория, передается в обработчики явно
type Session struct {
	UserID string
	Name   string
	Role   UserRole
	LabID  string
}

func (s Session) IsStockManager() bool {
	return s.Role.CanManageStock()
}
