package update_appointment_status

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TurnsBookingService/internal/api/middleware"
	"github.com/m04kA/TurnsBookingService/internal/service/appointments"
	"github.com/m04kA/TurnsBookingService/internal/service/appointments/models"
	"github.com/m04kA/TurnsBookingService/pkg/logger"
)

type fakeService struct {
	updateStatus func(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error)
}

func (f *fakeService) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	return f.updateStatus(ctx, id, req)
}

func send(svc AppointmentService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/appointments/{appointmentId}/status", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Handle(t *testing.T) {
	var gotID int64
	var got *models.UpdateStatusRequest
	svc := &fakeService{updateStatus: func(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
		gotID, got = id, req
		return &models.AppointmentResponse{ID: id, Status: req.Status}, nil
	}}

	rec := send(svc, "/appointments/12/status", `{"status":"CONFIRMED"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), gotID)
	assert.Equal(t, int64(100), got.UserID)
	assert.Equal(t, "CONFIRMED", got.Status)
	assert.Contains(t, rec.Body.String(), `"status":"CONFIRMED"`)
}

func TestHandler_Handle_BadRequest(t *testing.T) {
	svc := &fakeService{updateStatus: func(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "non numeric id", path: "/appointments/abc/status", body: `{"status":"CONFIRMED"}`},
		{name: "broken json", path: "/appointments/12/status", body: `{"status":`},
		{name: "unknown field", path: "/appointments/12/status", body: `{"state":"CONFIRMED"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(svc, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "not found", svcErr: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{name: "not the owner", svcErr: appointments.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "unknown status", svcErr: appointments.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "terminal state", svcErr: appointments.ErrInvalidTransition, wantStatus: http.StatusUnprocessableEntity},
		{name: "internal", svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{updateStatus: func(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
				return nil, tt.svcErr
			}}

			rec := send(svc, "/appointments/12/status", `{"status":"COMPLETED"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
