package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/TurnsBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/TurnsBookingService/pkg/logger"
)

type fakeUseCase struct {
	execute func(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

func (f *fakeUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	return f.execute(ctx, req)
}

func serve(uc SlotsUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/businesses/{businessId}/available-slots", NewHandler(uc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_Handle(t *testing.T) {
	var got *getAvailableSlots.Request
	uc := &fakeUseCase{execute: func(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
		got = req
		return &getAvailableSlots.Response{
			Date:       req.Date,
			BusinessID: req.BusinessID,
			ServiceID:  req.ServiceID,
			Slots: []getAvailableSlots.Slot{
				{StartTime: "09:00", EndTime: "09:30", Available: true},
				{StartTime: "09:30", EndTime: "10:00", Available: false},
			},
		}, nil
	}}

	rec := serve(uc, "/businesses/3/available-slots?serviceId=8&date=2025-10-13")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), got.BusinessID)
	assert.Equal(t, int64(8), got.ServiceID)
	assert.True(t, got.Date.Equal(time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)))

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2025-10-13", body.Date)
	assert.Equal(t, []AvailableSlot{
		{StartTime: "09:00", EndTime: "09:30", Available: true},
		{StartTime: "09:30", EndTime: "10:00", Available: false},
	}, body.Slots)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		ucErr      error
		wantStatus int
	}{
		{name: "bad business id", target: "/businesses/abc/available-slots?serviceId=8&date=2025-10-13", wantStatus: http.StatusBadRequest},
		{name: "missing service", target: "/businesses/3/available-slots?date=2025-10-13", wantStatus: http.StatusBadRequest},
		{name: "missing date", target: "/businesses/3/available-slots?serviceId=8", wantStatus: http.StatusBadRequest},
		{name: "bad date", target: "/businesses/3/available-slots?serviceId=8&date=13.10.2025", wantStatus: http.StatusBadRequest},
		{name: "business not found", target: "/businesses/3/available-slots?serviceId=8&date=2025-10-13", ucErr: getAvailableSlots.ErrBusinessNotFound, wantStatus: http.StatusNotFound},
		{name: "service not found", target: "/businesses/3/available-slots?serviceId=8&date=2025-10-13", ucErr: getAvailableSlots.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", target: "/businesses/3/available-slots?serviceId=8&date=2025-10-13", ucErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{execute: func(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
				return nil, tt.ucErr
			}}

			rec := serve(uc, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
