package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/user-admin-console/internal/dto"
	"github.com/noah-isme/user-admin-console/internal/models"
	appErrors "github.com/noah-isme/user-admin-console/pkg/errors"
	"github.com/noah-isme/user-admin-console/pkg/middleware/requestid"
)

const usersPath = "/users"

// Operation names used for logs, metrics and BackendFailure.Op.
const (
	OpFetchAll = "fetch users"
	OpCreate   = "create user"
	OpUpdate   = "update user"
	OpDelete   = "delete user"
)

type callObserver interface {
	ObserveBackendCall(operation string, status int, duration time.Duration)
}

// UserRepository is the only component talking to the remote user store. It keeps no state
// between calls.
type UserRepository struct {
	baseURL  string
	client   *http.Client
	observer callObserver
	logger   *zap.Logger
}

// NewUserRepository builds a repository for the user store rooted at baseURL.
func NewUserRepository(baseURL string, client *http.Client, observer callObserver, logger *zap.Logger) *UserRepository {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserRepository{baseURL: baseURL, client: client, observer: observer, logger: logger}
}

// FetchAll lists every user.
func (r *UserRepository) FetchAll(ctx context.Context) ([]models.User, error) {
	var envelope dto.UserListEnvelope
	if err := r.do(ctx, OpFetchAll, http.MethodGet, usersPath, nil, &envelope); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(envelope.Data))
	for _, wire := range envelope.Data {
		user, err := dto.FromWire(wire)
		if err != nil {
			return nil, &appErrors.BackendFailure{Op: OpFetchAll, Status: http.StatusOK, Err: err}
		}
		users = append(users, user)
	}
	return users, nil
}

// Create stores a new user and returns the canonical record assigned by the backend.
func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	wire := dto.ToWire(user)
	wire.UserID = models.UnsavedUserID
	return r.save(ctx, OpCreate, http.MethodPost, wire)
}

// Update replaces every field of an existing user.
func (r *UserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	return r.save(ctx, OpUpdate, http.MethodPut, dto.ToWire(user))
}

// Delete removes a user by id. It reports true only when the backend echoes the requested id.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var envelope dto.DeleteEnvelope
	path := usersPath + "/" + strconv.FormatInt(id, 10)
	if err := r.do(ctx, OpDelete, http.MethodDelete, path, nil, &envelope); err != nil {
		return false, err
	}
	return envelope.Data != nil && *envelope.Data == id, nil
}

func (r *UserRepository) save(ctx context.Context, op, method string, wire dto.UserWire) (models.User, error) {
	var envelope dto.UserEnvelope
	if err := r.do(ctx, op, method, usersPath, wire, &envelope); err != nil {
		return models.User{}, err
	}
	if envelope.Data == nil {
		return models.User{}, &appErrors.BackendFailure{Op: op, Status: http.StatusOK, Err: fmt.Errorf("response has no user")}
	}
	user, err := dto.FromWire(*envelope.Data)
	if err != nil {
		return models.User{}, &appErrors.BackendFailure{Op: op, Status: http.StatusOK, Err: err}
	}
	return user, nil
}

func (r *UserRepository) do(ctx context.Context, op, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return &appErrors.BackendFailure{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return &appErrors.BackendFailure{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = requestid.New()
	}
	req.Header.Set(requestid.HeaderKey, reqID)

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		r.observe(op, 0, duration)
		r.logger.Warn("user store request failed", zap.String("operation", op), zap.String("request_id", reqID), zap.Error(err))
		return &appErrors.BackendFailure{Op: op, Err: err}
	}
	defer resp.Body.Close()
	r.observe(op, resp.StatusCode, duration)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &appErrors.BackendFailure{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		failure := &appErrors.BackendFailure{Op: op, Status: resp.StatusCode, Body: raw}
		var envelope dto.FailureEnvelope
		if json.Unmarshal(raw, &envelope) == nil {
			failure.ErrorCode = envelope.ErrorCode
			failure.ErrorMessage = envelope.ErrorMessage
		}
		r.logger.Debug("user store rejected request",
			zap.String("operation", op),
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
			zap.Int("error_code", failure.ErrorCode),
		)
		return failure
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &appErrors.BackendFailure{Op: op, Status: resp.StatusCode, Body: raw, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (r *UserRepository) observe(op string, status int, duration time.Duration) {
	if r.observer != nil {
		r.observer.ObserveBackendCall(op, status, duration)
	}
}
