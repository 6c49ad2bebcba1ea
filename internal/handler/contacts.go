package handler

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/addrbook/contact-bridge-service/infra/log/slogx"
	"github.com/addrbook/contact-bridge-service/internal/contacts"
	"github.com/addrbook/contact-bridge-service/internal/errors"
	"github.com/addrbook/contact-bridge-service/internal/model"
)

// Broker topics of the method-call surface.
const (
	TopicMethod  = "contacts.method"
	TopicReply   = "contacts.method.reply"
	TopicUpdated = "contacts.updated"
)

// methodCall is one inbound method-channel invocation.
type methodCall struct {
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments"`
}

type methodReply struct {
	Result any         `json:"result,omitempty"`
	Error  *replyError `json:"error,omitempty"`
}

type replyError struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// listArgs are the shared flags of every list-returning method.
type listArgs struct {
	Query               string `json:"query"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	WithThumbnails      bool   `json:"withThumbnails"`
	PhotoHighResolution bool   `json:"photoHighResolution"`
	OrderByGivenName    bool   `json:"orderByGivenName"`
	LocalizedLabels     bool   `json:"localizedLabels"`
}

func (args listArgs) options() contacts.ListOptions {
	return contacts.ListOptions{
		WithThumbnails:      args.WithThumbnails,
		PhotoHighResolution: args.PhotoHighResolution,
		OrderByName:         args.OrderByGivenName,
		LocalizeLabels:      args.LocalizedLabels,
	}
}

// openArgs wrap the form/picker methods' input.
type openArgs struct {
	Contact         map[string]any `json:"contact"`
	LocalizedLabels bool           `json:"localizedLabels"`
}

// avatarArgs wrap getAvatar's input.
type avatarArgs struct {
	Contact             map[string]any `json:"contact"`
	PhotoHighResolution bool           `json:"photoHighResolution"`
}

// onMethodCall decodes one method-channel message, dispatches it and
// publishes the correlated reply. It always replies; malformed input
// and unknown methods become error replies, never dropped messages.
func (h *Service) onMethodCall(msg *message.Message) ([]*message.Message, error) {

	var call methodCall
	if err := json.Unmarshal(msg.Payload, &call); err != nil {
		h.opts.Logs.Warn("malformed method call", "error", err)
		return h.reply(msg, nil, errors.BadRequest(
			errors.Message("contact: malformed method call"),
		))
	}

	result, err := h.dispatch(msg.Context(), call)
	return h.reply(msg, result, err)
}

func (h *Service) reply(msg *message.Message, result any, err error) ([]*message.Message, error) {

	re := methodReply{
		Result: result,
	}
	if err != nil {
		fault, _ := errors.FromError(err)
		re.Error = &replyError{
			Code:    fault.Code,
			Message: fault.Message,
		}
	}

	body, err := json.Marshal(re)
	if err != nil {
		return nil, err
	}

	// reply correlates on the request message id
	return []*message.Message{
		message.NewMessage(msg.UUID, body),
	}, nil
}

func (h *Service) dispatch(ctx context.Context, call methodCall) (any, error) {

	svc := h.opts.Contacts

	switch call.Method {
	case "getContacts":
		{
			args, err := decode[listArgs](call.Arguments)
			if err != nil {
				return nil, err
			}
			list, err := svc.GetContacts(ctx, args.Query, args.options()).Await(ctx)
			return transportList(list), err
		}
	case "getContactsForPhone":
		{
			args, err := decode[listArgs](call.Arguments)
			if err != nil {
				return nil, err
			}
			h.opts.Logs.Debug("lookup by phone",
				"phone", slogx.DeferValue(func() slog.Value {
					return slog.StringValue(slogx.SecureString(args.Phone))
				}),
			)
			list, err := svc.GetContactsForPhone(ctx, args.Phone, args.options()).Await(ctx)
			return transportList(list), err
		}
	case "getContactsForEmail":
		{
			args, err := decode[listArgs](call.Arguments)
			if err != nil {
				return nil, err
			}
			h.opts.Logs.Debug("lookup by email",
				"email", slogx.DeferValue(func() slog.Value {
					return slog.StringValue(slogx.SecureString(args.Email))
				}),
			)
			list, err := svc.GetContactsForEmail(ctx, args.Email, args.options()).Await(ctx)
			return transportList(list), err
		}
	case "getAvatar":
		{
			args, err := decode[avatarArgs](call.Arguments)
			if err != nil {
				return nil, err
			}
			c := model.ContactFromMap(args.Contact)
			return svc.GetAvatar(ctx, c.Identifier, args.PhotoHighResolution).Await(ctx)
		}
	case "addContact":
		{
			c, err := contactArgument(call.Arguments)
			if err != nil {
				return nil, err
			}
			ok, err := svc.AddContact(ctx, c).Await(ctx)
			if err == nil {
				h.publishUpdated("add", "")
			}
			return ok, err
		}
	case "updateContact":
		{
			c, err := contactArgument(call.Arguments)
			if err != nil {
				return nil, err
			}
			ok, err := svc.UpdateContact(ctx, c).Await(ctx)
			if err == nil {
				h.publishUpdated("update", c.Identifier)
			}
			return ok, err
		}
	case "deleteContact":
		{
			c, err := contactArgument(call.Arguments)
			if err != nil {
				return nil, err
			}
			ok, err := svc.DeleteContact(ctx, c).Await(ctx)
			if err == nil {
				h.publishUpdated("delete", c.Identifier)
			}
			return ok, err
		}
	case "openExistingContact":
		{
			args, err := decode[openArgs](call.Arguments)
			if err != nil {
				return nil, err
			}
			c := model.ContactFromMap(args.Contact)
			res, err := svc.OpenExistingContact(ctx, c, args.LocalizedLabels).Await(ctx)
			return formResult(res), err
		}
	case "openContactForm":
		{
			args, err := decode[openArgs](call.Arguments)
			if err != nil {
				return nil, err
			}
			res, err := svc.OpenContactForm(ctx, args.LocalizedLabels).Await(ctx)
			return formResult(res), err
		}
	case "openDeviceContactPicker":
		{
			args, err := decode[openArgs](call.Arguments)
			if err != nil {
				return nil, err
			}
			res, err := svc.OpenDeviceContactPicker(ctx, args.LocalizedLabels).Await(ctx)
			return formResult(res), err
		}
	}

	return nil, errors.NotImplemented(
		errors.Message("contact: method %s not implemented", call.Method),
	)
}

func decode[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, errors.BadRequest(
			errors.Message("contact: malformed arguments"),
		)
	}
	return args, nil
}

// contactArgument reads the mutation methods' transport-map payload.
func contactArgument(raw json.RawMessage) (*model.Contact, error) {
	src, err := decode[map[string]any](raw)
	if err != nil {
		return nil, err
	}
	return model.ContactFromMap(src), nil
}

func transportList(list []*model.Contact) []map[string]any {
	out := make([]map[string]any, len(list))
	for i, c := range list {
		out[i] = c.TransportMap()
	}
	return out
}

// formResult encodes a round-trip outcome for the wire: the contact's
// transport map, or the numeric terminal code.
func formResult(res *contacts.FormResult) any {
	if res == nil {
		return int32(contacts.FormCouldNotOpen)
	}
	if res.Contact != nil {
		return res.Contact.TransportMap()
	}
	return int32(res.Code)
}

type updatedEvent struct {
	Action     string `json:"action"`
	Identifier string `json:"identifier,omitempty"`
}

// publishUpdated emits a mutation event so other embedders can refresh.
func (h *Service) publishUpdated(action, identifier string) {

	body, err := json.Marshal(updatedEvent{
		Action:     action,
		Identifier: identifier,
	})
	if err != nil {
		return
	}

	msg := message.NewMessage(uuid.NewString(), body)
	if err := h.opts.Broker.Publisher().Publish(TopicUpdated, msg); err != nil {
		h.opts.Logs.Warn("publish mutation event",
			"action", action, "error", err,
		)
	}
}
