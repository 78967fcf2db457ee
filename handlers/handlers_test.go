package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shootdispatch/clients/backend"
	"shootdispatch/models"
	"shootdispatch/services/assignment"
	"shootdispatch/services/availability"
	"shootdispatch/services/dispatch"
	"shootdispatch/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDispatch struct {
	initiate func(models.BookingRequest, models.RankOptions) (*dispatch.SessionView, error)
	open     func(sessionID, photographerID, date string) (*dispatch.PhotographerView, error)
	assign   func(sessionID, shootID, photographerID string) (*dispatch.AssignView, error)
	next     *models.NextAvailability
}

func (f *fakeDispatch) InitiateSession(_ context.Context, req models.BookingRequest, opts models.RankOptions) (*dispatch.SessionView, error) {
	return f.initiate(req, opts)
}

func (f *fakeDispatch) RankSession(_ context.Context, sessionID string, opts models.RankOptions) (*dispatch.SessionView, error) {
	if sessionID != "s1" {
		return nil, dispatch.ErrSessionNotFound
	}
	return &dispatch.SessionView{SessionID: sessionID, Options: opts}, nil
}

func (f *fakeDispatch) OpenPhotographer(_ context.Context, sessionID, photographerID, date string) (*dispatch.PhotographerView, error) {
	return f.open(sessionID, photographerID, date)
}

func (f *fakeDispatch) Assign(_ context.Context, sessionID, shootID, photographerID string) (*dispatch.AssignView, error) {
	return f.assign(sessionID, shootID, photographerID)
}

func (f *fakeDispatch) CancelSession(context.Context, string) error {
	return nil
}

func (f *fakeDispatch) Timeline(_ context.Context, photographerID, date string) (*models.Timeline, error) {
	return &models.Timeline{PhotographerID: photographerID, Date: date}, nil
}

func (f *fakeDispatch) NextAvailable(context.Context, string, string) (*models.NextAvailability, error) {
	return f.next, nil
}

func dispatchRouter(svc dispatch.DispatchService) *gin.Engine {
	r := gin.New()
	h := NewDispatchHandler(svc)
	r.POST("/session", h.InitiateSession)
	r.PUT("/session/:sessionID/rank", h.RankSession)
	r.PUT("/session/:sessionID/photographer", h.OpenPhotographer)
	r.POST("/session/:sessionID/assign", h.Assign)
	r.DELETE("/session/:sessionID", h.CancelSession)
	r.GET("/timeline", h.Timeline)
	r.GET("/next-available", h.NextAvailable)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestInitiateSessionHandler(t *testing.T) {
	svc := &fakeDispatch{
		initiate: func(req models.BookingRequest, opts models.RankOptions) (*dispatch.SessionView, error) {
			assert.Equal(t, "2025-01-06", req.Date)
			assert.Equal(t, "10:00", req.Time)
			assert.Equal(t, "distance", opts.SortBy)
			return &dispatch.SessionView{SessionID: "s1", Revision: 1}, nil
		},
	}
	w := doJSON(t, dispatchRouter(svc), http.MethodPost, "/session", gin.H{
		"booking": gin.H{"address": gin.H{"line": "1 Main St"}, "date": "2025-01-06", "time": "10:00"},
		"options": gin.H{"sortBy": "distance"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var view dispatch.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "s1", view.SessionID)
	assert.Equal(t, int64(1), view.Revision)
}

func TestInitiateSessionHandler_MissingBookingFields(t *testing.T) {
	svc := &fakeDispatch{}
	w := doJSON(t, dispatchRouter(svc), http.MethodPost, "/session", gin.H{
		"booking": gin.H{"date": "2025-01-06"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRankSessionHandler_UnknownSession(t *testing.T) {
	w := doJSON(t, dispatchRouter(&fakeDispatch{}), http.MethodPut, "/session/nope/rank", gin.H{"options": gin.H{}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session_not_found", decodeError(t, w).Code)
}

func TestOpenPhotographerHandler_StaleView(t *testing.T) {
	svc := &fakeDispatch{
		open: func(sessionID, photographerID, date string) (*dispatch.PhotographerView, error) {
			assert.Equal(t, "s1", sessionID)
			assert.Equal(t, "p1", photographerID)
			assert.Equal(t, "2025-01-06", date)
			return nil, dispatch.ErrStaleView
		},
	}
	w := doJSON(t, dispatchRouter(svc), http.MethodPut, "/session/s1/photographer",
		gin.H{"photographerId": "p1", "date": "2025-01-06"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "stale_view", decodeError(t, w).Code)
}

func TestAssignHandler_MapsAssignmentErrors(t *testing.T) {
	cases := []struct {
		kind   assignment.Kind
		status int
	}{
		{assignment.KindNotFound, http.StatusNotFound},
		{assignment.KindConflict, http.StatusConflict},
		{assignment.KindInvalid, http.StatusBadRequest},
		{assignment.KindFailed, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			svc := &fakeDispatch{
				assign: func(_, shootID, _ string) (*dispatch.AssignView, error) {
					return nil, &assignment.AssignmentError{Kind: tc.kind, ShootID: shootID, Message: "boom"}
				},
			}
			w := doJSON(t, dispatchRouter(svc), http.MethodPost, "/session/s1/assign",
				gin.H{"shootId": "sh1", "photographerId": "p1"})

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "assignment_"+string(tc.kind), decodeError(t, w).Code)
		})
	}
}

func TestAssignHandler_Success(t *testing.T) {
	svc := &fakeDispatch{
		assign: func(sessionID, shootID, photographerID string) (*dispatch.AssignView, error) {
			return &dispatch.AssignView{
				Shoot:                  &models.Shoot{ID: shootID, PhotographerID: "p1"},
				PreviousPhotographerID: "p2",
				View:                   &dispatch.PhotographerView{SessionID: sessionID, PhotographerID: "p1"},
			}, nil
		},
	}
	w := doJSON(t, dispatchRouter(svc), http.MethodPost, "/session/s1/assign", gin.H{"shootId": "sh1"})

	require.Equal(t, http.StatusOK, w.Code)
	var view dispatch.AssignView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "p1", view.Shoot.PhotographerID)
	assert.Equal(t, "p2", view.PreviousPhotographerID)
}

func TestTimelineHandler_RequiresPhotographer(t *testing.T) {
	r := dispatchRouter(&fakeDispatch{})

	w := doJSON(t, r, http.MethodGet, "/timeline?date=2025-01-06", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/timeline?photographerId=p1&date=2025-01-06", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var timeline models.Timeline
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &timeline))
	assert.Equal(t, "p1", timeline.PhotographerID)
}

func TestNextAvailableHandler_NoneFound(t *testing.T) {
	w := doJSON(t, dispatchRouter(&fakeDispatch{}), http.MethodGet, "/next-available?photographerId=p1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"photographerId":"p1","nextAvailable":null}`, w.Body.String())
}

func TestRespondError_BackendFailures(t *testing.T) {
	for _, err := range []error{
		fmt.Errorf("load: %w", availability.ErrShootsFetchFailed),
		fmt.Errorf("call: %w", backend.ErrBackendUnavailable),
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, "failed", err)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	}
}

// fake repositories for the CRUD handlers.

type memSlots struct {
	slots []models.AvailabilitySlot
}

func (m *memSlots) CreateMany(_ context.Context, slots []models.AvailabilitySlot) ([]string, error) {
	ids := make([]string, len(slots))
	for i := range slots {
		ids[i] = fmt.Sprintf("slot-%d", len(m.slots)+1)
		slots[i].ID = ids[i]
		m.slots = append(m.slots, slots[i])
	}
	return ids, nil
}

func (m *memSlots) DeleteByID(_ context.Context, id string) error {
	for i, s := range m.slots {
		if s.ID == id {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("slot %s: %w", id, models.ErrNotFound)
}

func (m *memSlots) ListByPhotographer(_ context.Context, photographerID string) ([]models.AvailabilitySlot, error) {
	out := []models.AvailabilitySlot{}
	for _, s := range m.slots {
		if s.PhotographerID == photographerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlots) EnsureIndexes(context.Context) error { return nil }

func availabilityRouter(repo *memSlots) *gin.Engine {
	r := gin.New()
	h := NewAvailabilityHandler(repo)
	r.GET("/availability", h.List)
	r.POST("/availability", h.Create)
	r.DELETE("/availability/:id", h.Delete)
	return r
}

func TestAvailabilityHandler_CreateListDelete(t *testing.T) {
	repo := &memSlots{}
	r := availabilityRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/availability", gin.H{
		"photographerId": "p1", "dayOfWeek": "Monday", "startTime": "09:00", "endTime": "17:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created []models.AvailabilitySlot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created, 1)
	assert.Equal(t, models.SlotAvailable, created[0].Status, "status defaults to available")

	w = doJSON(t, r, http.MethodGet, "/availability?photographerId=p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.AvailabilitySlot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	w = doJSON(t, r, http.MethodDelete, "/availability/"+created[0].ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/availability/"+created[0].ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityHandler_RejectsInvalidBatch(t *testing.T) {
	repo := &memSlots{}
	w := doJSON(t, availabilityRouter(repo), http.MethodPost, "/availability", gin.H{
		"slots": []gin.H{
			{"photographerId": "p1", "date": "2025-01-06", "startTime": "09:00", "endTime": "12:00"},
			{"photographerId": "p1", "date": "2025-01-06", "startTime": "14:00", "endTime": "13:00"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.slots, "nothing is stored when any slot is invalid")
}

func TestAvailabilityHandler_ListRequiresPhotographer(t *testing.T) {
	w := doJSON(t, availabilityRouter(&memSlots{}), http.MethodGet, "/availability", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubAssigner struct {
	shootID, photographerID string
}

func (s *stubAssigner) Assign(_ context.Context, shootID, photographerID string) (*assignment.Result, error) {
	s.shootID, s.photographerID = shootID, photographerID
	if photographerID == "" {
		return nil, &assignment.AssignmentError{Kind: assignment.KindInvalid, ShootID: shootID, Message: "photographer is required"}
	}
	return &assignment.Result{Shoot: &models.Shoot{ID: shootID, PhotographerID: photographerID}}, nil
}

func TestShootHandler_PatchAcceptsBothCasings(t *testing.T) {
	for _, body := range []gin.H{
		{"photographer_id": "p7"},
		{"photographerId": "p7"},
	} {
		assigner := &stubAssigner{}
		r := gin.New()
		r.PATCH("/shoots/:id", NewShootHandler(nil, assigner).Patch)

		w := doJSON(t, r, http.MethodPatch, "/shoots/sh1", body)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sh1", assigner.shootID)
		assert.Equal(t, "p7", assigner.photographerID)
	}
}

func TestShootHandler_PatchWithoutPhotographer(t *testing.T) {
	r := gin.New()
	r.PATCH("/shoots/:id", NewShootHandler(nil, &stubAssigner{}).Patch)

	w := doJSON(t, r, http.MethodPatch, "/shoots/sh1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type memRoster struct {
	saved []models.Photographer
}

func (m *memRoster) Upsert(_ context.Context, p *models.Photographer) error {
	if p.ID == "" {
		p.ID = "generated"
	}
	m.saved = append(m.saved, *p)
	return nil
}

func (m *memRoster) ListPhotographers(context.Context) ([]models.Photographer, error) {
	return m.saved, nil
}

func (m *memRoster) GetPhotographer(_ context.Context, id string) (*models.Photographer, error) {
	for _, p := range m.saved {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memRoster) EnsureIndexes(context.Context) error { return nil }

type recordingQueue struct {
	tasks []*asynq.Task
}

func (q *recordingQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestPhotographerHandler_UpsertQueuesGeocode(t *testing.T) {
	repo := &memRoster{}
	queue := &recordingQueue{}
	r := gin.New()
	h := NewPhotographerHandler(repo, queue)
	r.POST("/photographers", h.Upsert)

	w := doJSON(t, r, http.MethodPost, "/photographers", gin.H{
		"name":    " Ana ",
		"status":  "ON_LEAVE",
		"address": gin.H{"line": "1 Main St", "city": "Austin", "state": "TX"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "Ana", repo.saved[0].Name)
	assert.Equal(t, models.StatusFree, repo.saved[0].Status, "unknown status normalizes to free")
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, "geocode:address", queue.tasks[0].Type())
}

func TestPhotographerHandler_NoAddressNoTask(t *testing.T) {
	queue := &recordingQueue{}
	r := gin.New()
	r.POST("/photographers", NewPhotographerHandler(&memRoster{}, queue).Upsert)

	w := doJSON(t, r, http.MethodPost, "/photographers", gin.H{"name": "Ben", "status": "busy"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, queue.tasks)
}

func TestHealth(t *testing.T) {
	utils.CheckHealth(context.Background(), nil, nil)
	r := gin.New()
	r.GET("/health", Health)

	w := doJSON(t, r, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var status utils.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Mongo)
}
