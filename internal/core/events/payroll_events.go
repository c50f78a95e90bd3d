package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeDepartmentChanged    = "department.changed"
	EventTypeEmployeeChanged      = "employee.changed"
	EventTypePayrollRecordCreated = "payroll.record_created"
	EventTypePayrollPeriodChanged = "payroll.period_changed"
)

// Change actions carried by the *Changed events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeTypes lists every event that alters aggregate payroll figures.
var ChangeTypes = []string{
	EventTypeDepartmentChanged,
	EventTypeEmployeeChanged,
	EventTypePayrollRecordCreated,
	EventTypePayrollPeriodChanged,
}

type EntityChangedEvent struct {
	BaseEvent
	EntityID int64  `json:"entity_id"`
	Action   string `json:"action"`
}

func newEntityChanged(eventType string, id int64, action string) *EntityChangedEvent {
	return &EntityChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entity_id": id,
				"action":    action,
			},
		},
		EntityID: id,
		Action:   action,
	}
}

func NewDepartmentChangedEvent(departmentID int64, action string) *EntityChangedEvent {
	return newEntityChanged(EventTypeDepartmentChanged, departmentID, action)
}

func NewEmployeeChangedEvent(employeeID int64, action string) *EntityChangedEvent {
	return newEntityChanged(EventTypeEmployeeChanged, employeeID, action)
}

func NewPeriodChangedEvent(periodID int64, action string) *EntityChangedEvent {
	return newEntityChanged(EventTypePayrollPeriodChanged, periodID, action)
}

type PayrollRecordCreatedEvent struct {
	BaseEvent
	RecordID      int64  `json:"record_id"`
	EmployeeID    int64  `json:"employee_id"`
	PeriodID      int64  `json:"payroll_period_id"`
	PeriodCreated bool   `json:"period_created"`
	NetPay        string `json:"net_pay"`
}

func NewPayrollRecordCreatedEvent(recordID, employeeID, periodID int64, periodCreated bool, netPay string) *PayrollRecordCreatedEvent {
	return &PayrollRecordCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePayrollRecordCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"record_id":         recordID,
				"employee_id":       employeeID,
				"payroll_period_id": periodID,
				"period_created":    periodCreated,
				"net_pay":           netPay,
			},
		},
		RecordID:      recordID,
		EmployeeID:    employeeID,
		PeriodID:      periodID,
		PeriodCreated: periodCreated,
		NetPay:        netPay,
	}
}
