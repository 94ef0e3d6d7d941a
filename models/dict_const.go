package models

type EquipmentType string

const (
	EquipmentConsumable    EquipmentType = "consumable"
	EquipmentNonConsumable EquipmentType = "non-consumable"
)

func (t EquipmentType) IsValid() bool {
	return t == EquipmentConsumable || t == EquipmentNonConsumable
}

// RequestStatus статус заявки на оборудование
type RequestStatus string

const (
	RequestStatusPending           RequestStatus = "pending"
	RequestStatusApproved          RequestStatus = "approved"
	RequestStatusPartiallyApproved RequestStatus = "partially approved"
	RequestStatusRejected          RequestStatus = "rejected"
)

// IsTerminal заявка уже получила решение
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusApproved, RequestStatusPartiallyApproved, RequestStatusRejected:
		return true
	}
	return false
}

// IsAllowChange переходы только pending -> одно из финальных состояний
func (s RequestStatus) IsAllowChange(to RequestStatus) bool {
	return s == RequestStatusPending && to.IsTerminal()
}

// ApprovalStatus статус записи о выдаче
type ApprovalStatus string

const (
	ApprovalStatusApproved          ApprovalStatus = "approved"
	ApprovalStatusPartiallyApproved ApprovalStatus = "partially approved"
	ApprovalStatusCompleted         ApprovalStatus = "completed"
)

func (s ApprovalStatus) IsCompleted() bool {
	return s == ApprovalStatusCompleted
}

// ToRequestStatus статус заявки, соответствующий решению
func (s ApprovalStatus) ToRequestStatus() RequestStatus {
	if s == ApprovalStatusPartiallyApproved {
		return RequestStatusPartiallyApproved
	}
	return RequestStatusApproved
}
