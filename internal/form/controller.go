// Package form holds the state of the profile editing form: field values,
// the derived full name, the skills list and its suggestion set, validation
// and the load/save exchange with the gateway.
//
// The controller is framework-free. An input layer calls SetField (or writes
// a value and calls OnFieldChange itself) for every edit; nothing is pushed
// from the gateway except in Initialize.
package form

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/janisto/profile-editor/internal/gateway"
	applog "github.com/janisto/profile-editor/internal/platform/logging"
)

// Controller errors
var (
	ErrReadOnlyField  = errors.New("field is derived and cannot be set")
	ErrUnknownField   = errors.New("unknown form field")
	ErrSaveInProgress = errors.New("a save is already in progress")
)

// InvalidFormError is returned by Save when validation fails. The gateway is
// not called and no notification is sent.
type InvalidFormError struct {
	Result   Result
	Messages map[Field]string
}

func (e *InvalidFormError) Error() string {
	fields := make([]string, 0, len(e.Messages))
	for f := range e.Messages {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	return "form is invalid: " + strings.Join(fields, ", ")
}

// Values is a read-only copy of the form state for rendering.
type Values struct {
	FirstName string
	LastName  string
	FullName  string
	Age       string
	Email     string
	Skills    []string
	NewSkill  string
}

// Controller owns one profile form instance.
type Controller struct {
	gw         gateway.Gateway
	notifier   Notifier
	withSkills bool

	fetches singleflight.Group

	mu          sync.Mutex
	firstName   string
	lastName    string
	fullName    string
	age         string
	email       string
	skills      Skills
	suggestions []string
	newSkill    string
	loading     bool
	loadErr     string
	saving      bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the receiver of save outcomes.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithSkills toggles the skills editor. Without it the skills list is optional
// and not validated.
func WithSkills(enabled bool) Option {
	return func(c *Controller) {
		c.withSkills = enabled
	}
}

// WithSuggestions replaces the initial suggestion set.
func WithSuggestions(suggestions []string) Option {
	return func(c *Controller) {
		c.suggestions = nil
		for _, s := range suggestions {
			if !isBlank(s) && !containsExact(c.suggestions, s) {
				c.suggestions = append(c.suggestions, s)
			}
		}
	}
}

// New creates a form bound to gw. The form starts empty; call Initialize to load.
func New(gw gateway.Gateway, opts ...Option) *Controller {
	c := &Controller{
		gw:          gw,
		notifier:    nopNotifier{},
		withSkills:  true,
		suggestions: append([]string(nil), DefaultSuggestions...),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fullName = DeriveFullName(c.firstName, c.lastName)
	return c
}

// DeriveFullName joins the name parts with a single space.
func DeriveFullName(first, last string) string {
	return first + " " + last
}

// Initialize loads the current user through the gateway. Concurrent calls
// share one request. On failure LoadError is set and the form keeps its
// current values; there is no retry.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	v, err, shared := c.fetches.Do("current-user", func() (any, error) {
		return c.gw.FetchCurrentUser(ctx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.loadErr = MsgLoadFailed
		applog.LogError(ctx, "profile load failed", err)
		return fmt.Errorf("loading profile: %w", err)
	}

	p, _ := v.(*gateway.UserProfile)
	if p == nil {
		c.loadErr = MsgLoadFailed
		return fmt.Errorf("loading profile: %w", gateway.ErrNotFound)
	}
	c.loadErr = ""
	c.patch(*p)
	applog.LogInfo(ctx, "profile loaded",
		zap.Int("skills", c.skills.Len()),
		zap.Bool("shared", shared),
	)
	return nil
}

// patch copies the record into the form and recomputes the full name.
// The FullName carried by the record is ignored.
func (c *Controller) patch(p gateway.UserProfile) {
	c.firstName = p.FirstName
	c.lastName = p.LastName
	c.age = strconv.Itoa(p.Age)
	c.email = p.Email
	c.skills = NewSkills(p.Skills)
	c.fullName = DeriveFullName(c.firstName, c.lastName)
}

// SetField writes a scalar field and dispatches OnFieldChange.
func (c *Controller) SetField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldFirstName:
		c.firstName = value
	case FieldLastName:
		c.lastName = value
	case FieldAge:
		c.age = value
	case FieldEmail:
		c.email = value
	case FieldFullName:
		return fmt.Errorf("%s: %w", field, ErrReadOnlyField)
	default:
		return fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	c.onFieldChange(field)
	return nil
}

// OnFieldChange reacts to an edit of field. Only the name fields recompute the full name.
func (c *Controller) OnFieldChange(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFieldChange(field)
}

func (c *Controller) onFieldChange(field Field) {
	if field == FieldFirstName || field == FieldLastName {
		c.fullName = DeriveFullName(c.firstName, c.lastName)
	}
}

// FullName returns the derived full name.
func (c *Controller) FullName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullName
}

// Loading reports whether Initialize is waiting on the gateway.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadError returns the user-visible load failure, empty when the last load succeeded.
func (c *Controller) LoadError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Saving reports whether a save is outstanding. A UI should disable its save trigger meanwhile.
func (c *Controller) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// Values returns a copy of the current form state.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Values{
		FirstName: c.firstName,
		LastName:  c.lastName,
		FullName:  c.fullName,
		Age:       c.age,
		Email:     c.email,
		Skills:    c.skills.Values(),
		NewSkill:  c.newSkill,
	}
}

// Snapshot returns the record Save would send, including the derived full name.
// Unparseable age input becomes 0.
func (c *Controller) Snapshot() gateway.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() gateway.UserProfile {
	age := 0
	if n := parseAge(c.age); n != nil {
		age = *n
	}
	return gateway.UserProfile{
		FirstName: c.firstName,
		LastName:  c.lastName,
		FullName:  c.fullName,
		Age:       age,
		Email:     c.email,
		Skills:    c.skills.Values(),
	}
}

// Validate checks every field against the current values. It has no side effects.
func (c *Controller) Validate() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validate()
}

func (c *Controller) validate() Result {
	return validateValues(values{
		FirstName: c.firstName,
		LastName:  c.lastName,
		Age:       parseAge(c.age),
		Email:     c.email,
		Skills:    c.skills.Values(),
	}, c.withSkills)
}

// ErrorMessage returns the message for field's current failure, or "" when it is valid.
func (c *Controller) ErrorMessage(field Field) string {
	res := c.Validate()
	return ErrorMessage(field, res.Kind(field))
}

// Errors returns a message for every invalid field.
func (c *Controller) Errors() map[Field]string {
	return messagesFor(c.Validate())
}

func messagesFor(res Result) map[Field]string {
	out := make(map[Field]string)
	for _, f := range res.Invalid() {
		out[f] = ErrorMessage(f, res[f])
	}
	return out
}

// Save sends the full snapshot to the gateway when the form is valid.
// An invalid form returns *InvalidFormError without notifying. A save while
// another is outstanding returns ErrSaveInProgress. Otherwise exactly one
// notification is sent; on failure the edits are kept as they are.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInProgress
	}
	res := c.validate()
	if !res.Valid() {
		c.mu.Unlock()
		invalid := res.Invalid()
		names := make([]string, len(invalid))
		for i, f := range invalid {
			names[i] = string(f)
		}
		applog.LogWarn(ctx, "profile save skipped: form invalid", zap.Strings("fields", names))
		return &InvalidFormError{Result: res, Messages: messagesFor(res)}
	}
	snap := c.snapshot()
	c.saving = true
	c.mu.Unlock()

	err := c.gw.PersistUser(ctx, snap)

	c.mu.Lock()
	c.saving = false
	c.mu.Unlock()

	if err != nil {
		applog.LogError(ctx, "profile save failed", err)
		c.notifier.Notify(ctx, Notification{Kind: NotificationFailure, Message: MsgSaveFailed, Err: err})
		return fmt.Errorf("saving profile: %w", err)
	}
	applog.LogInfo(ctx, "profile saved", zap.Int("skills", len(snap.Skills)))
	c.notifier.Notify(ctx, Notification{Kind: NotificationSuccess, Message: MsgSaveSucceeded})
	return nil
}

// Skills returns the current skills in order.
func (c *Controller) Skills() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skills.Values()
}

// Suggestions returns this form's suggestion set.
func (c *Controller) Suggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.suggestions...)
}

// NewSkill returns the free-text skill input.
func (c *Controller) NewSkill() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.newSkill
}

// SetNewSkill writes the free-text skill input.
func (c *Controller) SetNewSkill(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newSkill = v
}

// AddSkill appends v unless it is blank or already listed. A successful add
// clears the free-text input.
func (c *Controller) AddSkill(v string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addSkill(v)
}

func (c *Controller) addSkill(v string) bool {
	if !c.skills.Add(v) {
		return false
	}
	c.newSkill = ""
	return true
}

// RemoveSkill drops the skill at index. Out-of-range indexes are a no-op.
func (c *Controller) RemoveSkill(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skills.Remove(index)
}

// SelectSuggestion adds a skill picked from the suggestion list.
func (c *Controller) SelectSuggestion(v string) bool {
	return c.AddSkill(v)
}

// AddFreeTextSkill handles a typed skill. Only values not yet in the suggestion
// set are accepted: they join the suggestions and the skills list. Existing
// suggestions must be picked with SelectSuggestion, so they are a no-op here.
func (c *Controller) AddFreeTextSkill(v string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.newSkill = v
	if isBlank(v) || containsExact(c.suggestions, v) {
		return false
	}
	c.suggestions = append(c.suggestions, v)
	return c.addSkill(v)
}

// SubmitNewSkill runs AddFreeTextSkill with the current free-text input.
func (c *Controller) SubmitNewSkill() bool {
	return c.AddFreeTextSkill(c.NewSkill())
}
