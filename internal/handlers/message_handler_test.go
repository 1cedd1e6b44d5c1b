package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthkonnect/healthkonnect-api/internal/middleware"
)

// Request validation runs before any collection access, so these routes
// can be exercised without a running store.
func newCallerRouter(uid primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, nil, cache.New(time.Minute, time.Minute))

	setCaller := func(c *gin.Context) { c.Set(middleware.CtxUserID, uid.Hex()) }

	r := gin.New()
	r.POST("/api/messages", setCaller, h.SendMessage)
	r.POST("/api/appointments", setCaller, h.CreateAppointment)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]["message"]
}

func TestSendMessage_RejectsSelfMessage(t *testing.T) {
	uid := primitive.NewObjectID()
	r := newCallerRouter(uid)

	w := postJSON(r, "/api/messages",
		`{"receiverId": "`+uid.Hex()+`", "content": "note to self"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cannot send a message to yourself", errorMessage(t, w))
}

func TestSendMessage_RejectsMalformedReceiver(t *testing.T) {
	r := newCallerRouter(primitive.NewObjectID())

	w := postJSON(r, "/api/messages",
		`{"receiverId": "not-an-id", "content": "hi"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid receiver id", errorMessage(t, w))
}

func TestSendMessage_RejectsEmptyContent(t *testing.T) {
	r := newCallerRouter(primitive.NewObjectID())

	w := postJSON(r, "/api/messages",
		`{"receiverId": "`+primitive.NewObjectID().Hex()+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointment_RejectsBadDate(t *testing.T) {
	r := newCallerRouter(primitive.NewObjectID())

	w := postJSON(r, "/api/appointments",
		`{"doctorId": "`+primitive.NewObjectID().Hex()+`", "date": "10-06-2024", "time": "10:00"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid date, use YYYY-MM-DD", errorMessage(t, w))
}

func TestCreateAppointment_RejectsBadTimeLabel(t *testing.T) {
	r := newCallerRouter(primitive.NewObjectID())

	w := postJSON(r, "/api/appointments",
		`{"doctorId": "`+primitive.NewObjectID().Hex()+`", "date": "2024-06-10", "time": "late"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid time, use HH:MM", errorMessage(t, w))
}

func TestCreateAppointment_RejectsMalformedDoctorID(t *testing.T) {
	r := newCallerRouter(primitive.NewObjectID())

	w := postJSON(r, "/api/appointments",
		`{"doctorId": "nope", "date": "2024-06-10", "time": "10:00"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid doctor id", errorMessage(t, w))
}
