package form

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/noah-isme/user-admin-console/internal/dto"
	"github.com/noah-isme/user-admin-console/internal/events"
	"github.com/noah-isme/user-admin-console/internal/models"
	"github.com/noah-isme/user-admin-console/internal/notify"
	appErrors "github.com/noah-isme/user-admin-console/pkg/errors"
)

// Backend error codes the form turns into field failures. Every other code is a generic failure.
const (
	CodeDuplicateUsername = 10003
	CodeDuplicateEmail    = 10004
)

var (
	// ErrFormInvalid is returned when a submission is blocked by a field failure.
	ErrFormInvalid = errors.New("form has invalid fields")
	// ErrUnknownField is returned for names outside the catalog.
	ErrUnknownField = errors.New("unknown form field")
	// ErrNotEditing is returned by RequestDelete on a create form.
	ErrNotEditing = errors.New("form is not editing an existing user")
)

type userStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type errorNotifier interface {
	ShowError(message string) notify.Notification
}

// Confirmer asks the operator a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Factory builds forms that share the catalog and collaborators.
type Factory struct {
	catalog  *Catalog
	store    userStore
	notifier errorNotifier
	events   events.Dispatcher
	logger   *zap.Logger
}

// NewFactory wires the collaborators every form needs.
func NewFactory(catalog *Catalog, store userStore, notifier errorNotifier, dispatcher events.Dispatcher, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{catalog: catalog, store: store, notifier: notifier, events: dispatcher, logger: logger}
}

// New returns a form for existing, or a create form when existing is nil.
func (f *Factory) New(existing *models.User) *UserForm {
	form := &UserForm{
		catalog:  f.catalog,
		store:    f.store,
		notifier: f.notifier,
		events:   f.events,
		logger:   f.logger,
		status:   models.Statuses()[0],
		fields:   make([]*fieldState, 0, len(f.catalog.Fields())),
	}
	for _, spec := range f.catalog.Fields() {
		form.fields = append(form.fields, &fieldState{spec: spec})
	}

	if existing != nil {
		copied := *existing
		form.existing = &copied
		form.status = copied.Status
		values := map[string]string{
			FieldUsername:   copied.Username,
			FieldEmail:      copied.Email,
			FieldFirstName:  copied.FirstName,
			FieldLastName:   copied.LastName,
			FieldDepartment: copied.Department,
		}
		for _, fs := range form.fields {
			fs.setValue(values[fs.spec.Name])
		}
	} else {
		for _, fs := range form.fields {
			fs.setValue("")
		}
	}
	return form
}

type fieldState struct {
	spec    FieldSpec
	value   string
	touched bool
	failure Kind
}

func (fs *fieldState) setValue(value string) {
	fs.value = value
	fs.failure = ""
	if rule, failed := fs.spec.Rules.FirstFailure(value); failed {
		fs.failure = rule.Kind
	}
}

// UserForm owns the field state of one user being created or edited.
type UserForm struct {
	catalog  *Catalog
	store    userStore
	notifier errorNotifier
	events   events.Dispatcher
	logger   *zap.Logger

	existing *models.User
	fields   []*fieldState
	status   models.UserStatus
	awaiting atomic.Bool
}

// Editing reports whether the form edits an existing user.
func (f *UserForm) Editing() bool {
	return f.existing != nil
}

// Awaiting reports whether a backend request is in flight. Advisory only.
func (f *UserForm) Awaiting() bool {
	return f.awaiting.Load()
}

// SetField updates a value and recomputes its validity.
func (f *UserForm) SetField(name, value string) error {
	fs := f.field(name)
	if fs == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	fs.setValue(value)
	return nil
}

// SetStatus selects the user status.
func (f *UserForm) SetStatus(status models.UserStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid user status %d", uint8(status))
	}
	f.status = status
	return nil
}

// Touch marks a field as visited, which makes its failure visible.
func (f *UserForm) Touch(name string) error {
	fs := f.field(name)
	if fs == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	fs.touched = true
	return nil
}

// Apply copies a draft onto the form: values first, then status, then touched fields.
func (f *UserForm) Apply(req dto.UserFormRequest) error {
	values := req.Values()
	for _, fs := range f.fields {
		if v, ok := values[fs.spec.Name]; ok {
			fs.setValue(v)
		}
	}
	if req.Status != nil {
		status, err := models.ParseUserStatus(*req.Status)
		if err != nil {
			return err
		}
		f.status = status
	}
	for _, name := range req.Touched {
		if err := f.Touch(name); err != nil {
			return err
		}
	}
	return nil
}

// Failure returns the failure currently reported by a field.
func (f *UserForm) Failure(name string) (Kind, bool) {
	fs := f.field(name)
	if fs == nil || fs.failure == "" {
		return "", false
	}
	return fs.failure, true
}

// Touched reports whether a field has been visited.
func (f *UserForm) Touched(name string) bool {
	fs := f.field(name)
	return fs != nil && fs.touched
}

// IsValid is true when no field reports a failure.
func (f *UserForm) IsValid() bool {
	for _, fs := range f.fields {
		if fs.failure != "" {
			return false
		}
	}
	return true
}

// Submit creates or updates the user. An invalid form marks every field touched and issues no
// request. Duplicate username or email responses become field failures; any other failure is
// shown through the notifier and returned.
func (f *UserForm) Submit(ctx context.Context) (models.User, error) {
	if !f.IsValid() {
		f.markAllTouched()
		return models.User{}, ErrFormInvalid
	}

	user := f.user()

	f.awaiting.Store(true)
	var (
		saved models.User
		err   error
	)
	if f.existing != nil {
		saved, err = f.store.Update(ctx, user)
	} else {
		saved, err = f.store.Create(ctx, user)
	}
	f.awaiting.Store(false)

	if err != nil {
		return models.User{}, f.onBackendError(err)
	}

	f.logger.Info("user saved", zap.Int64("user_id", saved.ID), zap.Bool("updated", f.existing != nil))
	if f.events != nil {
		f.events.Publish(ctx, events.UserUpserted(saved))
	}
	return saved, nil
}

// RequestDelete asks confirm before deleting the edited user. The deleted event is published only
// when the backend reports the requested id as deleted; any other answer is a silent no-op.
func (f *UserForm) RequestDelete(ctx context.Context, confirm Confirmer) (bool, error) {
	if f.existing == nil {
		return false, ErrNotEditing
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Are you sure you want to delete %s", f.existing.Username)) {
		return false, nil
	}

	id := f.existing.ID
	f.awaiting.Store(true)
	deleted, err := f.store.Delete(ctx, id)
	f.awaiting.Store(false)

	if err != nil {
		return false, f.onBackendError(err)
	}
	if !deleted {
		f.logger.Debug("backend did not confirm delete", zap.Int64("user_id", id))
		return false, nil
	}

	if f.events != nil {
		f.events.Publish(ctx, events.UserDeleted(id))
	}
	return true, nil
}

func (f *UserForm) onBackendError(err error) error {
	if failure, ok := appErrors.AsBackendFailure(err); ok {
		var name string
		switch failure.ErrorCode {
		case CodeDuplicateUsername:
			name = FieldUsername
		case CodeDuplicateEmail:
			name = FieldEmail
		}
		if fs := f.field(name); fs != nil {
			fs.failure = KindDuplicate
			fs.touched = true
			return fmt.Errorf("%w: %w", ErrFormInvalid, err)
		}
	}

	f.logger.Error("user store request failed", zap.Error(err))
	if f.notifier != nil {
		f.notifier.ShowError(notify.GenericFailureMessage)
	}
	return err
}

func (f *UserForm) markAllTouched() {
	for _, fs := range f.fields {
		fs.touched = true
	}
}

func (f *UserForm) user() models.User {
	id := models.UnsavedUserID
	if f.existing != nil {
		id = f.existing.ID
	}
	return models.User{
		ID:         id,
		Username:   f.value(FieldUsername),
		FirstName:  f.value(FieldFirstName),
		LastName:   f.value(FieldLastName),
		Email:      f.value(FieldEmail),
		Status:     f.status,
		Department: f.value(FieldDepartment),
	}
}

func (f *UserForm) value(name string) string {
	if fs := f.field(name); fs != nil {
		return fs.value
	}
	return ""
}

func (f *UserForm) field(name string) *fieldState {
	for _, fs := range f.fields {
		if fs.spec.Name == name {
			return fs
		}
	}
	return nil
}

// State renders the form. Failure details are only exposed for touched fields.
func (f *UserForm) State() dto.FormView {
	view := dto.FormView{
		Fields:      make([]dto.FieldView, 0, len(f.fields)),
		Status:      f.status.Key(),
		Statuses:    StatusOptions(),
		Valid:       f.IsValid(),
		Awaiting:    f.Awaiting(),
		AllowDelete: f.Editing(),
	}
	if f.existing != nil {
		view.UserID = f.existing.ID
	}
	for _, fs := range f.fields {
		fv := dto.FieldView{
			Name:    fs.spec.Name,
			Value:   fs.value,
			Touched: fs.touched,
			Valid:   fs.failure == "",
		}
		if fs.touched && fs.failure != "" {
			fv.Error = string(fs.failure)
			fv.Message = fs.spec.Message(fs.failure)
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

// StatusOptions lists the status select entries.
func StatusOptions() []dto.StatusOption {
	statuses := models.Statuses()
	out := make([]dto.StatusOption, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, dto.StatusOption{Key: s.Key(), Label: s.Label()})
	}
	return out
}
