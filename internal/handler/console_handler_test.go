package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/user-admin-console/internal/events"
	"github.com/noah-isme/user-admin-console/internal/form"
	"github.com/noah-isme/user-admin-console/internal/models"
	"github.com/noah-isme/user-admin-console/internal/notify"
	"github.com/noah-isme/user-admin-console/internal/service"
	appErrors "github.com/noah-isme/user-admin-console/pkg/errors"
)

type fakeUserStore struct {
	mu         sync.Mutex
	users      []models.User
	nextID     int64
	fetchErr   error
	saveErr    error
	deleteEcho *int64
	calls      int
}

func (s *fakeUserStore) FetchAll(context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return append([]models.User(nil), s.users...), nil
}

func (s *fakeUserStore) Create(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.saveErr != nil {
		return models.User{}, s.saveErr
	}
	s.nextID++
	u.ID = s.nextID
	s.users = append(s.users, u)
	return u, nil
}

func (s *fakeUserStore) Update(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.saveErr != nil {
		return models.User{}, s.saveErr
	}
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
		}
	}
	return u, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.deleteEcho != nil {
		return *s.deleteEcho == id, nil
	}
	return true, nil
}

func (s *fakeUserStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type testEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type console struct {
	engine   *gin.Engine
	store    *fakeUserStore
	notifier *notify.Notifier
	list     *service.UserListService
}

func newConsole(t *testing.T) *console {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &fakeUserStore{
		nextID: 10,
		users: []models.User{
			{ID: 1, Username: "alice", FirstName: "Alice", LastName: "A", Email: "alice@example.com", Status: models.StatusActive},
			{ID: 2, Username: "bob", FirstName: "Bob", LastName: "B", Email: "bob@example.com", Status: models.StatusInactive, Department: "Ops"},
		},
	}
	logger := zap.NewNop()
	notifier := notify.NewNotifier(time.Minute, "", nil, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	catalog, err := form.NewUserCatalog(validator.New(), form.DefaultLimits())
	require.NoError(t, err)
	forms := form.NewFactory(catalog, store, notifier, dispatcher, logger)
	list := service.NewUserListService(store, notifier, dispatcher, logger)

	usersList := NewUsersListHandler(list, forms, notifier, logger)
	createUser := NewCreateUserHandler(forms, notifier, logger)
	exports := NewExportHandler(service.NewUserExportService(list, nil, nil, logger))
	notifications := NewNotificationHandler(notifier)

	r := gin.New()
	r.GET("/users-list", usersList.List)
	r.PUT("/users-list/:id", usersList.Update)
	r.DELETE("/users-list/:id", usersList.Delete)
	r.GET("/users-list/export", exports.Users)
	r.GET("/create-user", createUser.Blank)
	r.POST("/create-user", createUser.Create)
	r.POST("/create-user/validate", createUser.Validate)
	r.GET("/notification", notifications.Current)
	r.POST("/notification/:id/acknowledge", notifications.Acknowledge)

	return &console{engine: r, store: store, notifier: notifier, list: list}
}

func (c *console) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	c.engine.ServeHTTP(rec, req)

	var env testEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

type listData struct {
	Users []struct {
		ID          int64  `json:"id"`
		Username    string `json:"username"`
		Status      string `json:"status"`
		StatusLabel string `json:"statusLabel"`
	} `json:"users"`
	Statuses []struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	} `json:"statuses"`
	Awaiting bool `json:"awaiting"`
}

type formData struct {
	UserID int64 `json:"userId"`
	Fields []struct {
		Name    string `json:"name"`
		Value   string `json:"value"`
		Touched bool   `json:"touched"`
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"fields"`
	Status      string `json:"status"`
	Valid       bool   `json:"valid"`
	AllowDelete bool   `json:"allowDelete"`
}

func (f formData) field(name string) (value, errKind, message string) {
	for _, fv := range f.Fields {
		if fv.Name == name {
			return fv.Value, fv.Error, fv.Message
		}
	}
	return "", "", ""
}

func TestUsersListRendersRows(t *testing.T) {
	c := newConsole(t)

	rec, env := c.do(t, http.MethodGet, "/users-list", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[listData](t, env.Data)
	require.Len(t, data.Users, 2)
	assert.Equal(t, "alice", data.Users[0].Username)
	assert.Equal(t, "I", data.Users[1].Status)
	assert.Equal(t, "Inactive", data.Users[1].StatusLabel)
	assert.Len(t, data.Statuses, 3)
	assert.False(t, data.Awaiting)
	assert.Nil(t, env.Meta)
}

func TestUsersListFailureShowsNotification(t *testing.T) {
	c := newConsole(t)
	c.store.fetchErr = &appErrors.BackendFailure{Op: "fetch users", Status: http.StatusInternalServerError, ErrorCode: 10002}

	rec, env := c.do(t, http.MethodGet, "/users-list", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrBadGateway.Code, env.Error.Code)
	data := decode[listData](t, env.Data)
	assert.Empty(t, data.Users)
	notification, ok := env.Meta["notification"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, notify.GenericFailureMessage, notification["message"])
	assert.Equal(t, notify.DefaultAction, notification["action"])
}

func TestUpdateUserSuccess(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")

	rec, env := c.do(t, http.MethodPut, "/users-list/2", `{"firstName":"Robert","status":"T"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	row := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, "Robert", row["firstName"])
	assert.Equal(t, "Terminated", row["statusLabel"])

	updated, ok := c.list.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Robert", updated.FirstName)
	assert.Len(t, c.list.Users(), 2)
}

func TestUpdateUserInvalidReturnsForm(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")
	before := c.store.callCount()

	rec, env := c.do(t, http.MethodPut, "/users-list/1", `{"username":"ab"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, appErrors.ErrInvalidForm.Code, env.Error.Code)
	data := decode[formData](t, env.Data)
	_, kind, message := data.field(form.FieldUsername)
	assert.Equal(t, "minlength", kind)
	assert.Equal(t, "Username needs to be at least 3 characters long.", message)
	assert.Equal(t, before, c.store.callCount())
}

func TestUpdateUserDuplicateUsername(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")
	c.store.saveErr = &appErrors.BackendFailure{Op: "update user", Status: http.StatusBadRequest, ErrorCode: form.CodeDuplicateUsername, ErrorMessage: "duplicate"}

	rec, env := c.do(t, http.MethodPut, "/users-list/1", `{"username":"bob"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	data := decode[formData](t, env.Data)
	_, kind, message := data.field(form.FieldUsername)
	assert.Equal(t, "duplicate", kind)
	assert.Equal(t, "Username is already in use.", message)
	_, shown := c.notifier.Current()
	assert.False(t, shown)
}

func TestUpdateUserGenericFailure(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")
	c.store.saveErr = &appErrors.BackendFailure{Op: "update user", Status: http.StatusBadRequest, ErrorCode: 10007}

	rec, env := c.do(t, http.MethodPut, "/users-list/1", `{"lastName":"Z"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, env.Meta, "notification")
	data := decode[formData](t, env.Data)
	assert.True(t, data.Valid)
}

func TestUpdateUserUnknown(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")

	rec, _ := c.do(t, http.MethodPut, "/users-list/99", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = c.do(t, http.MethodPut, "/users-list/abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = c.do(t, http.MethodPut, "/users-list/1", `{"status":"X"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUserRequiresConfirmation(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")
	before := c.store.callCount()

	rec, env := c.do(t, http.MethodDelete, "/users-list/1", "")

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, "Are you sure you want to delete alice", env.Meta["prompt"])
	assert.Equal(t, before, c.store.callCount())
	assert.Len(t, c.list.Users(), 2)
}

func TestDeleteUserConfirmed(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")

	rec, env := c.do(t, http.MethodDelete, "/users-list/1?confirm=true", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, true, data["deleted"])
	users := c.list.Users()
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].ID)
}

func TestDeleteUserMismatchedEcho(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")
	other := int64(7)
	c.store.deleteEcho = &other

	rec, env := c.do(t, http.MethodDelete, "/users-list/1?confirm=true", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, false, data["deleted"])
	assert.Len(t, c.list.Users(), 2)
	_, shown := c.notifier.Current()
	assert.False(t, shown)
}

func TestCreateUserBlankAndValidate(t *testing.T) {
	c := newConsole(t)

	rec, env := c.do(t, http.MethodGet, "/create-user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	blank := decode[formData](t, env.Data)
	assert.Equal(t, "A", blank.Status)
	assert.False(t, blank.Valid)
	assert.False(t, blank.AllowDelete)

	rec, env = c.do(t, http.MethodPost, "/create-user/validate", `{"email":"bad","touched":["email"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	draft := decode[formData](t, env.Data)
	_, kind, message := draft.field(form.FieldEmail)
	assert.Equal(t, "pattern", kind)
	assert.Equal(t, "Email is not a valid email address.", message)
	_, kind, _ = draft.field(form.FieldUsername)
	assert.Empty(t, kind)
	assert.Equal(t, 0, c.store.callCount())
}

func TestCreateUserNavigatesToList(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")

	rec, env := c.do(t, http.MethodPost, "/create-user",
		`{"username":"carol","email":"carol@example.com","firstName":"Carol","lastName":"C","department":"R&D"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ViewUsersList, env.Meta["navigate"])
	row := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, float64(11), row["id"])
	assert.Len(t, c.list.Users(), 3)
}

func TestCreateUserEmptyDraft(t *testing.T) {
	c := newConsole(t)

	rec, env := c.do(t, http.MethodPost, "/create-user", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	data := decode[formData](t, env.Data)
	for _, fv := range data.Fields {
		assert.True(t, fv.Touched, fv.Name)
	}
	_, kind, _ := data.field(form.FieldUsername)
	assert.Equal(t, "required", kind)
	_, kind, _ = data.field(form.FieldEmail)
	assert.Equal(t, "required", kind)
	assert.Equal(t, 0, c.store.callCount())
}

func TestCreateUserMalformedBody(t *testing.T) {
	c := newConsole(t)
	rec, env := c.do(t, http.MethodPost, "/create-user", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

func TestNotificationLifecycle(t *testing.T) {
	c := newConsole(t)

	rec, _ := c.do(t, http.MethodGet, "/notification", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	shown := c.notifier.ShowError(notify.GenericFailureMessage)
	rec, env := c.do(t, http.MethodGet, "/notification", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, shown.ID, view["id"])

	rec, _ = c.do(t, http.MethodPost, "/notification/"+shown.ID+"/acknowledge", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = c.do(t, http.MethodPost, "/notification/"+shown.ID+"/acknowledge", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportUsers(t *testing.T) {
	c := newConsole(t)
	c.do(t, http.MethodGet, "/users-list", "")

	rec, _ := c.do(t, http.MethodGet, "/users-list/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, rec.Body.String(), "2,bob,Bob,B,bob@example.com,Inactive,Ops")

	rec, _ = c.do(t, http.MethodGet, "/users-list/export?format=pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec, _ = c.do(t, http.MethodGet, "/users-list/export?format=xlsx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
