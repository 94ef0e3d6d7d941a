package rbac

import (
	"labstock-backend/models"
)

var (
	AdminRoleSet        = []models.UserRole{models.AdminRole}
	StockManagerRoleSet = []models.UserRole{models.AdminRole, models.StockManagerRole}
	AllRoles            = []models.UserRole{models.AdminRole, models.StockManagerRole, models.LabUserRole}
)

func (i *impl) initRules() {
	i.addUsersRbac()
	i.addLabsRbac()
	i.addEquipmentRbac()
	i.addRequestRbac()
	i.addApprovedRequestRbac()
	i.addReportsRbac()
	i.profile()
}

// mustRegister ошибка в таблице правил останавливает запуск
func (i *impl) mustRegister(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) {
	if err := i.RegisterRule(module, permission, roles, swaggerPattern, handler); err != nil {
		panic(err.Error())
	}
}

func (i *impl) addUsersRbac() {
	i.mustRegister(models.UsersModule, models.ViewPermission, AdminRoleSet, "/api/v1/users/list [post]", nil)
	i.mustRegister(models.UsersModule, models.ViewPermission, AdminRoleSet, "/api/v1/users/{id} [get]", nil)
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users [post]", nil)
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [delete]", nil)
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [put]", nil)
}

func (i *impl) addLabsRbac() {
	i.mustRegister(models.LabsModule, models.ViewPermission, AllRoles, "/api/v1/labs/list [post]", nil)
	i.mustRegister(models.LabsModule, models.ViewPermission, AllRoles, "/api/v1/labs/{id} [get]", nil)
	i.mustRegister(models.LabsModule, models.ManagePermission, AdminRoleSet, "/api/v1/labs [post]", nil)
	i.mustRegister(models.LabsModule, models.ManagePermission, AdminRoleSet, "/api/v1/labs/{id} [put]", nil)
	i.mustRegister(models.LabsModule, models.ManagePermission, AdminRoleSet, "/api/v1/labs/{id} [delete]", nil)
}

func (i *impl) addEquipmentRbac() {
	// VIEW
	i.mustRegister(models.EquipmentModule, models.ViewPermission, AllRoles, "/api/v1/equipment/list [post]", nil)
	i.mustRegister(models.EquipmentModule, models.ViewPermission, AllRoles, "/api/v1/equipment/{id} [get]", nil)
	i.mustRegister(models.EquipmentModule, models.ViewPermission, AllRoles, "/api/v1/equipment/{id}/history [get]", nil)
	// EDIT
	i.mustRegister(models.EquipmentModule, models.EditPermission, StockManagerRoleSet, "/api/v1/equipment [post]", nil)
	i.mustRegister(models.EquipmentModule, models.EditPermission, StockManagerRoleSet, "/api/v1/equipment/{id} [put]", nil)
	i.mustRegister(models.EquipmentModule, models.EditPermission, StockManagerRoleSet, "/api/v1/equipment/{id} [delete]", nil)
	i.mustRegister(models.EquipmentModule, models.EditPermission, StockManagerRoleSet, "/api/v1/equipment/{id}/quantity [put]", nil)
	i.mustRegister(models.EquipmentModule, models.FilesPermission, StockManagerRoleSet, "/api/v1/equipment/{id}/image [post]", nil)
}

func (i *impl) addRequestRbac() {
	// заявки сотрудника ограничены его лабораторией в обработчике
	i.mustRegister(models.RequestModule, models.CreatePermission, AllRoles, "/api/v1/request [post]", RequireLabFunc(AllRoles))
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/request/list [post]", nil)
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/request/{id} [get]", nil)
	//FLOW
	i.mustRegister(models.RequestModule, models.FlowPermission, StockManagerRoleSet, "/api/v1/request/{id}/review [get]", nil)
	i.mustRegister(models.RequestModule, models.FlowPermission, StockManagerRoleSet, "/api/v1/request/{id}/approve [put]", nil)
	i.mustRegister(models.RequestModule, models.FlowPermission, StockManagerRoleSet, "/api/v1/request/{id}/reject [put]", nil)
}

func (i *impl) addApprovedRequestRbac() {
	i.mustRegister(models.ApprovedRequestModule, models.ViewPermission, StockManagerRoleSet, "/api/v1/approved_request/list [post]", nil)
	i.mustRegister(models.ApprovedRequestModule, models.ViewPermission, StockManagerRoleSet, "/api/v1/approved_request/{id} [get]", nil)
	i.mustRegister(models.ApprovedRequestModule, models.ViewPermission, StockManagerRoleSet, "/api/v1/approved_request/{id}/report [get]", nil)
	i.mustRegister(models.ApprovedRequestModule, models.FlowPermission, StockManagerRoleSet, "/api/v1/approved_request/{id}/complete [post]", nil)
}

func (i *impl) addReportsRbac() {
	i.mustRegister(models.ReportsModule, models.ViewPermission, StockManagerRoleSet, "/api/v1/reports/budget [get]", nil)
	i.mustRegister(models.ReportsModule, models.ViewPermission, StockManagerRoleSet, "/api/v1/reports/overview [get]", nil)
	i.mustRegister(models.ReportsModule, models.ViewPermission, StockManagerRoleSet, "/api/v1/reports/expenses_export [post]", nil)
}

func (i *impl) profile() {
	i.mustRegister(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/user_profile [get]", nil)
	i.mustRegister(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/user_profile [put]", nil)
	i.mustRegister(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/user_profile/photo [post]", nil)
	i.mustRegister(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/user_profile/permissions [get]", nil)
}
