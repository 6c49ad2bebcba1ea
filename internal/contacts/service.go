// Package contacts is the orchestrating service: it compiles queries,
// dispatches storage work to the bounded pool, aggregates rows into
// contact entities and delivers every result exactly once on the
// coordination loop.
package contacts

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/fx"
	"golang.org/x/text/language"

	"github.com/addrbook/contact-bridge-service/config"
	"github.com/addrbook/contact-bridge-service/internal/aggregate"
	"github.com/addrbook/contact-bridge-service/internal/batch"
	"github.com/addrbook/contact-bridge-service/internal/bridge"
	"github.com/addrbook/contact-bridge-service/internal/errors"
	"github.com/addrbook/contact-bridge-service/internal/labels"
	"github.com/addrbook/contact-bridge-service/internal/model"
	"github.com/addrbook/contact-bridge-service/internal/query"
	"github.com/addrbook/contact-bridge-service/internal/store"
)

// Fixed caller-visible mutation failure messages.
const (
	MsgAddFailed    = "Failed to add the contact"
	MsgUpdateFailed = "Failed to update the contact, make sure it has a valid identifier"
	MsgDeleteFailed = "Failed to delete the contact, make sure it has a valid identifier"
)

// avatar cache sizing
const (
	avatarCacheSize = 256
	avatarCacheTTL  = 30 * time.Second
)

// ListOptions are the per-read flags shared by every list operation.
type ListOptions struct {
	// Attach avatar bytes to every returned contact.
	WithThumbnails bool
	// Prefer full-size photos over thumbnails.
	PhotoHighResolution bool
	// Apply locale-aware (family, given) ordering.
	OrderByName bool
	// Resolve category labels through the localization table.
	LocalizeLabels bool
}

// FormCode is the caller-visible outcome of a form/picker round-trip
// that produced no contact.
type FormCode int32

const (
	FormCancelled    FormCode = 1
	FormCouldNotOpen FormCode = 2
)

// FormResult carries either the aggregated contact or the terminal
// code, never both.
type FormResult struct {
	Contact *model.Contact
	Code    FormCode
}

type ServiceOptions struct {
	fx.In

	Logger   *slog.Logger
	Config   *config.Config
	Store    store.DataStore
	Labels   *labels.Resolver
	Launcher bridge.Launcher
}

// Service is a process-wide singleton; its lifecycle bounds the worker
// pool, the coordination loop and every pending completion.
type Service struct {
	logger   *slog.Logger
	store    store.DataStore
	labels   *labels.Resolver
	launcher bridge.Launcher
	codec    Codec
	locale   language.Tag

	pool    *Pool
	loop    *Loop
	avatars *expirable.LRU[string, []byte]
}

func NewService(opts ServiceOptions) *Service {

	locale, err := language.Parse(opts.Config.Service.Locale)
	if err != nil {
		locale = language.English
	}

	return &Service{
		logger:   opts.Logger,
		store:    opts.Store,
		labels:   opts.Labels,
		launcher: opts.Launcher,
		codec:    pngCodec{},
		locale:   locale,

		pool: NewPool(poolWorkersMax, poolQueueSize, poolIdleTimeout),
		loop: NewLoop(),
		avatars: expirable.NewLRU[string, []byte](
			avatarCacheSize, nil, avatarCacheTTL,
		),
	}
}

// Close stops intake, drains queued work best-effort and abandons
// undelivered completions.
func (s *Service) Close() {
	s.pool.Close()
	s.loop.Close()
}

// dispatch runs fn on the worker pool and delivers its result on the
// coordination loop, exactly once.
func dispatch[T any](s *Service, fn func() (T, error)) *Task[T] {

	task := newTask[T](s.loop.Done())

	err := s.pool.Submit(func() {
		value, err := fn()
		s.loop.Post(func() {
			task.complete(value, err)
		})
	})

	if err != nil {
		var zero T
		s.loop.Post(func() {
			task.complete(zero, err)
		})
	}

	return task
}

// GetContacts lists all contacts, or those whose display name starts
// with the free-text query.
func (s *Service) GetContacts(ctx context.Context, text string, opts ListOptions) *Task[[]*model.Contact] {
	return dispatch(s, func() ([]*model.Contact, error) {
		return s.list(ctx, query.Rows(text, ""), opts)
	})
}

// GetContactsForPhone resolves the phone against the lookup index, then
// lists the candidate contacts. A blank phone, or an empty candidate
// set, yields an empty list without a projection query.
func (s *Service) GetContactsForPhone(ctx context.Context, phone string, opts ListOptions) *Task[[]*model.Contact] {
	return dispatch(s, func() ([]*model.Contact, error) {

		if phone == "" {
			return []*model.Contact{}, nil
		}

		candidates, err := s.store.LookupPhone(store.LookupPhoneRequest{
			Context: ctx,
			Number:  phone,
		})
		if err != nil {
			s.logger.Error("phone lookup failed", "error", err)
			return nil, errors.Unavailable(
				errors.Message("contact: phone lookup failed"),
			)
		}

		sel := query.ByCandidates(candidates)
		if sel.Zero() {
			return []*model.Contact{}, nil
		}
		return s.list(ctx, sel, opts)
	})
}

// GetContactsForEmail lists contacts with a matching email substring.
// A blank email yields an empty list without a query.
func (s *Service) GetContactsForEmail(ctx context.Context, email string, opts ListOptions) *Task[[]*model.Contact] {
	return dispatch(s, func() ([]*model.Contact, error) {
		sel := query.ByEmail(email)
		if sel.Zero() {
			return []*model.Contact{}, nil
		}
		return s.list(ctx, sel, opts)
	})
}

// GetAvatar loads a contact's avatar bytes; absent resolves to an empty
// slice, not an error.
func (s *Service) GetAvatar(ctx context.Context, identifier string, highRes bool) *Task[[]byte] {
	return dispatch(s, func() ([]byte, error) {
		return s.avatar(ctx, identifier, highRes), nil
	})
}

// AddContact compiles and atomically applies the create batch.
func (s *Service) AddContact(ctx context.Context, c *model.Contact) *Task[bool] {
	return dispatch(s, func() (bool, error) {
		err := s.store.ApplyBatch(store.ApplyBatchRequest{
			Context: ctx,
			Ops:     batch.Create(c),
		})
		if err != nil {
			s.logger.Error("add contact failed", "error", err)
			return false, errors.BadRequest(
				errors.Message(MsgAddFailed),
			)
		}
		return true, nil
	})
}

// UpdateContact compiles and atomically applies the update batch; the
// contact must carry a storage identifier.
func (s *Service) UpdateContact(ctx context.Context, c *model.Contact) *Task[bool] {
	return dispatch(s, func() (bool, error) {

		ops, err := batch.Update(c)
		if err == nil {
			err = s.store.ApplyBatch(store.ApplyBatchRequest{
				Context: ctx,
				Ops:     ops,
			})
		}
		if err != nil {
			// keep the triggering error diagnosable
			s.logger.Error("update contact failed",
				"contact", c.Identifier, "error", err,
			)
			return false, errors.BadRequest(
				errors.Message(MsgUpdateFailed),
			)
		}

		s.forgetAvatar(c.Identifier)
		return true, nil
	})
}

// DeleteContact removes the contact's container; dependent rows cascade.
func (s *Service) DeleteContact(ctx context.Context, c *model.Contact) *Task[bool] {
	return dispatch(s, func() (bool, error) {

		ops, err := batch.Delete(c)
		if err == nil {
			err = s.store.ApplyBatch(store.ApplyBatchRequest{
				Context: ctx,
				Ops:     ops,
			})
		}
		if err != nil {
			s.logger.Error("delete contact failed",
				"contact", c.Identifier, "error", err,
			)
			return false, errors.BadRequest(
				errors.Message(MsgDeleteFailed),
			)
		}

		s.forgetAvatar(c.Identifier)
		return true, nil
	})
}

// OpenExistingContact launches the edit form for a persisted contact
// after verifying it still exists; completion yields the re-read
// contact, a cancellation, or a could-not-open code.
func (s *Service) OpenExistingContact(ctx context.Context, c *model.Contact, localize bool) *Task[*FormResult] {

	if c == nil || !c.Persisted() {
		return s.openFailed()
	}
	return s.open(ctx, bridge.Request{
		Kind:       bridge.KindEdit,
		Identifier: c.Identifier,
	}, localize, true)
}

// OpenContactForm launches the blank create form.
func (s *Service) OpenContactForm(ctx context.Context, localize bool) *Task[*FormResult] {
	return s.open(ctx, bridge.Request{
		Kind: bridge.KindCreate,
	}, localize, false)
}

// OpenDeviceContactPicker launches the pick-from-list screen.
func (s *Service) OpenDeviceContactPicker(ctx context.Context, localize bool) *Task[*FormResult] {
	return s.open(ctx, bridge.Request{
		Kind: bridge.KindPick,
	}, localize, false)
}

func (s *Service) openFailed() *Task[*FormResult] {
	task := newTask[*FormResult](s.loop.Done())
	s.loop.Post(func() {
		task.complete(&FormResult{Code: FormCouldNotOpen}, nil)
	})
	return task
}

// open orchestrates one form/picker round-trip. The launch itself runs
// on the coordination loop; storage work (pre-verification, the by-id
// re-read) runs on the pool; the pending caller resolves exactly once.
// A cancelled round-trip never reaches the aggregation pool.
func (s *Service) open(ctx context.Context, req bridge.Request, localize bool, verify bool) *Task[*FormResult] {

	task := newTask[*FormResult](s.loop.Done())

	resolve := func(res *FormResult) {
		s.loop.Post(func() {
			task.complete(res, nil)
		})
	}

	go func() {

		if verify {
			exists, ok := onPool(s, func() (bool, error) {
				list, err := s.list(ctx, query.ByIdentifier(req.Identifier), ListOptions{
					LocalizeLabels: localize,
				})
				return err == nil && len(list) > 0, nil
			})
			if !ok || !exists {
				resolve(&FormResult{Code: FormCouldNotOpen})
				return
			}
		}

		launched := make(chan *bridge.Pending, 1)
		s.loop.Post(func() {
			pnd, err := s.launcher.Launch(ctx, req)
			if err != nil {
				s.logger.Error("form launch failed",
					"kind", req.Kind.String(), "error", err,
				)
				pnd = nil
			}
			launched <- pnd
		})

		var pnd *bridge.Pending
		select {
		case pnd = <-launched:
		case <-s.loop.Done():
			return // abandoned
		}
		if pnd == nil {
			resolve(&FormResult{Code: FormCouldNotOpen})
			return
		}

		var cmpl bridge.Completion
		select {
		case cmpl = <-pnd.Done():
		case <-s.loop.Done():
			return // abandoned; no stale delivery
		case <-ctx.Done():
			return
		}

		state, id := bridge.Outcome(cmpl)
		switch state {
		case bridge.StateCancelled:
			// first-class outcome; no aggregation work
			resolve(&FormResult{Code: FormCancelled})

		case bridge.StateCompleted:
			res, ok := onPool(s, func() (*FormResult, error) {
				list, err := s.list(ctx, query.ByIdentifier(id), ListOptions{
					LocalizeLabels: localize,
				})
				if err != nil || len(list) == 0 {
					return &FormResult{Code: FormCouldNotOpen}, nil
				}
				return &FormResult{Contact: list[0]}, nil
			})
			if !ok {
				resolve(&FormResult{Code: FormCouldNotOpen})
				return
			}
			resolve(res)

		default:
			resolve(&FormResult{Code: FormCouldNotOpen})
		}
	}()

	return task
}

// onPool runs fn on the worker pool and waits for it; ok is false when
// the pool rejected the work or the service shut down while waiting.
func onPool[T any](s *Service, fn func() (T, error)) (T, bool) {
	var zero T

	out := make(chan T, 1)
	err := s.pool.Submit(func() {
		v, _ := fn()
		out <- v
	})
	if err != nil {
		return zero, false
	}

	select {
	case v := <-out:
		return v, true
	case <-s.loop.Done():
		return zero, false
	}
}

// list runs the selection, aggregates the row stream and applies the
// post-processing flags. A storage failure is reported upward, never
// silently flattened into an empty success.
func (s *Service) list(ctx context.Context, sel store.Selection, opts ListOptions) ([]*model.Contact, error) {

	src, err := s.store.QueryRows(store.QueryRowsRequest{
		Context:   ctx,
		Selection: sel,
	})
	if err != nil {
		s.logger.Error("contact query failed", "error", err)
		return nil, errors.Unavailable(
			errors.Message("contact: query failed"),
		)
	}

	list, err := aggregate.Contacts(src, s.labels, opts.LocalizeLabels)
	if err != nil {
		s.logger.Error("contact aggregation failed", "error", err)
		return nil, errors.Unavailable(
			errors.Message("contact: query failed"),
		)
	}

	if opts.WithThumbnails {
		for _, c := range list {
			c.Avatar = s.avatar(ctx, c.Identifier, opts.PhotoHighResolution)
		}
	}

	if opts.OrderByName {
		model.OrderByName(list, s.locale)
	}

	return list, nil
}

// avatar loads, transcodes and caches one contact's photo bytes.
// Absence is an empty, never nil, slice.
func (s *Service) avatar(ctx context.Context, identifier string, highRes bool) []byte {

	key := avatarKey(identifier, highRes)
	if photo, ok := s.avatars.Get(key); ok {
		return photo
	}

	photo, err := s.store.OpenPhoto(store.OpenPhotoRequest{
		Context:   ctx,
		ContactId: identifier,
		HighRes:   highRes,
	})
	if err != nil {
		s.logger.Warn("photo load failed",
			"contact", identifier, "error", err,
		)
		return []byte{}
	}

	if len(photo) == 0 {
		photo = []byte{}
	} else {
		photo = s.codec.Transcode(photo)
	}

	s.avatars.Add(key, photo)
	return photo
}

func (s *Service) forgetAvatar(identifier string) {
	s.avatars.Remove(avatarKey(identifier, false))
	s.avatars.Remove(avatarKey(identifier, true))
}

func avatarKey(identifier string, highRes bool) string {
	return identifier + ":" + strconv.FormatBool(highRes)
}
