package models

type RbacFunc func(labID, userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule           Module = "USERS"
	LabsModule            Module = "LABS"
	EquipmentModule       Module = "EQUIPMENT"
	RequestModule         Module = "REQUEST"
	ApprovedRequestModule Module = "APPROVED_REQUEST"
	ReportsModule         Module = "REPORTS"
	ProfileModule         Module = "PROFILE"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	ManagePermission Permission = "MANAGE"
	FlowPermission   Permission = "FLOW"
	FilesPermission  Permission = "FILES"
)
