package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shareit-hub/service-booking/internal/application"
	"github.com/shareit-hub/service-booking/internal/repository"
	"github.com/shareit-hub/service-booking/internal/testutil"
	"github.com/shareit-hub/service-booking/pkg/database"
	"github.com/shareit-hub/service-booking/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2030, 4, 1, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type server struct {
	db     *gorm.DB
	router *gin.Engine
}

// newServer wires the handlers over an in-memory database holding owner 1,
// booker 2 and available item 1 owned by 1. User 9 is the only admin.
func newServer(t *testing.T) *server {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()

	bookings := repository.NewGormBookingRepository(db)
	items := repository.NewGormItemRepository(db)
	users := repository.NewGormUserRepository(db)
	comments := repository.NewGormCommentRepository(db)

	projector := application.NewBookingProjector(bookings)
	eligibility := application.NewCommentEligibility(bookings)
	bookingSvc := application.NewBookingService(bookings, items, users, database.NewTxManager(db), nil, log)
	querySvc := application.NewBookingQueryService(bookings, items, users, log)
	itemSvc := application.NewItemService(items, users, comments, projector, log)
	commentSvc := application.NewCommentService(comments, items, users, eligibility, nil, log)

	clock := func() time.Time { return fixedNow }

	bh := NewBookingHandler(bookingSvc, querySvc)
	bh.now = clock
	ih := NewItemHandler(itemSvc)
	ih.now = clock
	ch := NewCommentHandler(commentSvc)
	ch.now = clock

	router := gin.New()
	bh.RegisterRoutes(&router.RouterGroup)
	ih.RegisterRoutes(&router.RouterGroup)
	ch.RegisterRoutes(&router.RouterGroup)
	NewAdminBookingHandler(bookingSvc).RegisterRoutes(&router.RouterGroup, []int64{9})

	testutil.SeedUser(t, db, 1)
	testutil.SeedUser(t, db, 2)
	testutil.SeedUser(t, db, 9)
	testutil.SeedItem(t, db, 1, 1, true)

	return &server{db: db, router: router}
}

func (s *server) do(t *testing.T, method, path string, userID int64, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(middleware.UserIDHeader, fmt.Sprint(userID))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func createBody(start, end time.Time) map[string]any {
	return map[string]any{"itemId": 1, "start": start, "end": end}
}

func decodeBooking(t *testing.T, env envelope) application.BookingDTO {
	t.Helper()
	var b application.BookingDTO
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b
}

func TestBookingHandler_Lifecycle(t *testing.T) {
	s := newServer(t)
	start := time.Now().UTC().Add(5 * time.Minute).Truncate(time.Second)

	w, env := s.do(t, http.MethodPost, "/bookings", 2, createBody(start, start.Add(5*time.Minute)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBooking(t, env)
	assert.Equal(t, "WAITING", created.Status)
	assert.Equal(t, "item-1", created.Item.Name)
	assert.True(t, start.Equal(created.Start))

	path := fmt.Sprintf("/bookings/%d", created.ID)

	w, _ = s.do(t, http.MethodPatch, path+"?approved=true", 2, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodPatch, path+"?approved=true", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "APPROVED", decodeBooking(t, env).Status)

	w, env = s.do(t, http.MethodPatch, path+"?approved=false", 1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)

	w, _ = s.do(t, http.MethodGet, path, 1, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, path, 9, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodDelete, path, 1, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(t, http.MethodDelete, path, 2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted int64
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, created.ID, deleted)

	w, _ = s.do(t, http.MethodGet, path, 2, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_CreateErrors(t *testing.T) {
	s := newServer(t)
	testutil.SeedItem(t, s.db, 2, 1, false)
	start := time.Now().UTC().Add(time.Hour)

	tests := []struct {
		name   string
		userID int64
		body   any
		want   int
	}{
		{"missing header", 0, createBody(start, start.Add(time.Hour)), http.StatusBadRequest},
		{"end before start", 2, createBody(start.Add(time.Hour), start), http.StatusBadRequest},
		{"missing item id", 2, map[string]any{"start": start, "end": start.Add(time.Hour)}, http.StatusBadRequest},
		{"unknown user", 77, createBody(start, start.Add(time.Hour)), http.StatusForbidden},
		{"owner self booking", 1, createBody(start, start.Add(time.Hour)), http.StatusNotFound},
		{"unknown item", 2, map[string]any{"itemId": 5, "start": start, "end": start.Add(time.Hour)}, http.StatusNotFound},
		{"unavailable item", 2, map[string]any{"itemId": 2, "start": start, "end": start.Add(time.Hour)}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodPost, "/bookings", tt.userID, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.False(t, env.Success)
		})
	}
}

func TestBookingHandler_UpdateStatusParams(t *testing.T) {
	s := newServer(t)
	id := testutil.SeedBooking(t, s.db, 1, 2, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), "WAITING")
	path := fmt.Sprintf("/bookings/%d", id)

	w, _ := s.do(t, http.MethodPatch, path, 1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPatch, path+"?approved=maybe", 1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPatch, "/bookings/abc?approved=true", 1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_List(t *testing.T) {
	s := newServer(t)
	h := func(n int) time.Time { return fixedNow.Add(time.Duration(n) * time.Hour) }
	past := testutil.SeedBooking(t, s.db, 1, 2, h(-5), h(-4), "APPROVED")
	current := testutil.SeedBooking(t, s.db, 1, 2, h(-1), h(1), "APPROVED")
	waiting := testutil.SeedBooking(t, s.db, 1, 2, h(3), h(4), "WAITING")

	list := func(t *testing.T, path string, userID int64) (int, []int64, envelope) {
		t.Helper()
		w, env := s.do(t, http.MethodGet, path, userID, nil)
		if w.Code != http.StatusOK {
			return w.Code, nil, env
		}
		var got []application.BookingDTO
		require.NoError(t, json.Unmarshal(env.Data, &got))
		ids := make([]int64, len(got))
		for i, b := range got {
			ids[i] = b.ID
		}
		return w.Code, ids, env
	}

	tests := []struct {
		name   string
		path   string
		userID int64
		want   []int64
	}{
		{"booker default all", "/bookings", 2, []int64{waiting, current, past}},
		{"owner default all", "/bookings/owner", 1, []int64{waiting, current, past}},
		{"current", "/bookings?state=CURRENT", 2, []int64{current}},
		{"lower case state", "/bookings/owner?state=past", 1, []int64{past}},
		{"waiting", "/bookings?state=WAITING", 2, []int64{waiting}},
		{"first page", "/bookings?from=0&size=2", 2, []int64{waiting, current}},
		{"second page", "/bookings?from=2&size=2", 2, []int64{past}},
		{"owner of nothing", "/bookings/owner", 2, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ids, _ := list(t, tt.path, tt.userID)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("unknown state", func(t *testing.T) {
		code, _, env := list(t, "/bookings?state=SOON", 2)
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Unknown state: SOON", env.Error.Message)
	})

	t.Run("bad paging", func(t *testing.T) {
		for _, q := range []string{"from=-1", "size=0", "size=x", "from=y"} {
			code, _, _ := list(t, "/bookings?"+q, 2)
			assert.Equal(t, http.StatusBadRequest, code, q)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		code, _, _ := list(t, "/bookings", 77)
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func TestItemHandler(t *testing.T) {
	s := newServer(t)
	last := testutil.SeedBooking(t, s.db, 1, 2, fixedNow.Add(-2*time.Hour), fixedNow.Add(-time.Hour), "APPROVED")
	next := testutil.SeedBooking(t, s.db, 1, 2, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), "WAITING")

	w, env := s.do(t, http.MethodGet, "/items/1", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var item application.ItemDTO
	require.NoError(t, json.Unmarshal(env.Data, &item))
	require.NotNil(t, item.LastBooking)
	require.NotNil(t, item.NextBooking)
	assert.Equal(t, last, item.LastBooking.ID)
	assert.Equal(t, next, item.NextBooking.ID)

	w, env = s.do(t, http.MethodGet, "/items/1", 2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	item = application.ItemDTO{}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Nil(t, item.LastBooking)
	assert.Nil(t, item.NextBooking)

	w, env = s.do(t, http.MethodGet, "/items", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []application.ItemDTO
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	require.NotNil(t, items[0].LastBooking)
	assert.Equal(t, last, items[0].LastBooking.ID)

	w, _ = s.do(t, http.MethodGet, "/items/99", 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentHandler(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(t, http.MethodPost, "/items/1/comment", 2, map[string]any{"text": "nice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	testutil.SeedBooking(t, s.db, 1, 2, fixedNow.Add(-2*time.Hour), fixedNow.Add(-time.Hour), "APPROVED")

	w, env := s.do(t, http.MethodPost, "/items/1/comment", 2, map[string]any{"text": "nice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var comment application.CommentDTO
	require.NoError(t, json.Unmarshal(env.Data, &comment))
	assert.Equal(t, "nice", comment.Text)
	assert.Equal(t, "user-2", comment.AuthorName)

	w, _ = s.do(t, http.MethodPost, "/items/1/comment", 2, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminBookingHandler(t *testing.T) {
	s := newServer(t)
	testutil.SeedBooking(t, s.db, 1, 2, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), "WAITING")

	w, _ := s.do(t, http.MethodGet, "/api/v1/admin/stats/bookings", 2, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/v1/admin/stats/bookings", 9, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats application.BookingStatsDTO
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["WAITING"])
}
