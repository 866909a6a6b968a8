package controllers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMessenger struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMessenger) Send(ctx context.Context, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+": "+body)
	return services.ChannelSMS, nil
}

func TestAppointmentLifecycle(t *testing.T) {
	db := newTestDB(t)
	tasks := services.NewTasks(zap.NewNop(), 1, 8)
	t.Cleanup(tasks.Close)
	messenger := &recordingMessenger{}
	reminders := services.NewReminderService(db, zap.NewNop(), messenger, time.UTC)
	require.NoError(t, reminders.EnsureTemplates(context.Background()))

	ac := &AppointmentController{DB: db, Tasks: tasks, Reminders: reminders, Loc: time.UTC}
	cc := &CustomerController{DB: db}
	r := gin.New()
	r.POST("/appointments", ac.CreateAppointment)
	r.GET("/appointments", ac.GetAppointments)
	r.PUT("/appointments/:id", ac.UpdateAppointment)
	r.DELETE("/customers/:id", cc.DeleteCustomer)

	service := models.Service{ServiceName: "Haircut", Price: 500, Duration: 30}
	require.NoError(t, db.Create(&service).Error)

	at := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	w := perform(r, http.MethodPost, "/appointments", jsonBody(t, gin.H{
		"firstName":   "Ana",
		"phoneNumber": "9000000001",
		"serviceId":   service.ID,
		"dateTime":    at,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var appt models.Appointment
	decode(t, w, &appt)
	assert.Equal(t, models.AppointmentConfirmed, appt.Status)
	require.NotNil(t, appt.Customer)
	require.NotNil(t, appt.Service)
	assert.Equal(t, "Haircut", appt.Service.ServiceName)

	// the same phone number reuses the customer
	w = perform(r, http.MethodPost, "/appointments", jsonBody(t, gin.H{
		"phoneNumber": "9000000001",
		"serviceId":   service.ID,
		"dateTime":    at.Add(24 * time.Hour),
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	var customers int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	assert.Equal(t, int64(1), customers)

	w = perform(r, http.MethodPost, "/appointments", jsonBody(t, gin.H{"serviceId": service.ID, "dateTime": at}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPut, "/appointments/"+appt.ID.String(), jsonBody(t, gin.H{"status": "done"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = perform(r, http.MethodPut, "/appointments/"+appt.ID.String(), jsonBody(t, gin.H{"status": "completed"}))
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/appointments?date=2024-06-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	decode(t, w, &list)
	require.Len(t, list.Appointments, 1)
	assert.Equal(t, models.AppointmentCompleted, list.Appointments[0].Status)

	tasks.Close()
	messenger.mu.Lock()
	assert.Len(t, messenger.sent, 2)
	assert.Contains(t, messenger.sent[0], "Sat, 01 Jun 2024 10:30 AM")
	messenger.mu.Unlock()

	// deleting the customer takes their appointments along
	w = perform(r, http.MethodDelete, "/customers/"+appt.CustomerID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var remaining int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
