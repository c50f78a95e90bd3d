package payroll

import (
	"context"
	"net/http"

	"github.com/frahmantamala/payroll-management/internal/transport"
)

type ServiceAPI interface {
	CreateRecord(ctx context.Context, dto CreateRecordDTO) (*Record, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)
	GetRecord(ctx context.Context, id int64) (*Record, error)
	ListPeriods(ctx context.Context) ([]*Period, error)
	UpdatePeriodStatus(ctx context.Context, id int64, dto UpdatePeriodStatusDTO) (*Period, error)
	DeletePeriod(ctx context.Context, id int64) error
	Summary(ctx context.Context) (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.OptionalInt64Query(r, "employee_id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	periodID, err := h.OptionalInt64Query(r, "period_id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	records, err := h.Service.ListRecords(r.Context(), RecordFilter{EmployeeID: employeeID, PeriodID: periodID})
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	responses := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, rec.ToResponse())
	}
	h.WriteData(w, http.StatusOK, "", responses)
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	rec, err := h.Service.GetRecord(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, "", rec.ToResponse())
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var dto CreateRecordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	rec, err := h.Service.CreateRecord(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusCreated, "Payroll recorded", rec.ToResponse())
}

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Service.ListPeriods(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	responses := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, p.ToResponse())
	}
	h.WriteData(w, http.StatusOK, "", responses)
}

func (h *Handler) UpdatePeriodStatus(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdatePeriodStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	period, err := h.Service.UpdatePeriodStatus(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, "Payroll period updated", period.ToResponse())
}

func (h *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeletePeriod(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.MessageResponse{Message: "Payroll period removed"})
}

// Summary is served bare, without the data envelope.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary.ToResponse())
}
