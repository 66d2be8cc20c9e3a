package deck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

// Methods lists the method names Invoke accepts.
var Methods = []string{
	"next", "previous", "fan", "close", "add", "remove", "merge",
	"moveToFront", "getTop", "orderBy", "on", "off",
}

// Invoke calls a deck method by name. It is the command surface used by
// the CLI and the HTTP service.
//
// Arguments:
//
//	next, previous     optional "fade" (or a bool)
//	fan                "key=value" strings, a fan.Config or *fan.Config
//	add, remove, merge item ids as strings or a []string; a trailing
//	                   func() runs on completion
//	moveToFront        item id
//	orderBy            optional func(a, b *stack.Item) int
//	on                 func(), returns the SubscriptionID
//	off                SubscriptionID
//	getTop             returns the top item id
//	close              no arguments
//
// Unknown or underscore-prefixed methods, and calls on a nil or destroyed
// deck, are logged and ignored; the returned error lets callers that care
// tell them apart.
func Invoke(d *Deck, method string, args ...any) (any, error) {
	if d == nil || d.destroyed {
		err := errors.New(errors.ErrCodeNotInitialized,
			"cannot call methods on deck prior to initialization; attempted to call method %q", method)
		logger(d).Error(errors.UserMessage(err))
		return nil, err
	}
	if strings.HasPrefix(method, "_") || !isMethod(method) {
		err := errors.New(errors.ErrCodeUnknownMethod, "no such method %q for deck instance", method)
		d.logger.Error(errors.UserMessage(err))
		return nil, err
	}

	result, err := d.invoke(method, args)
	if err != nil {
		d.logger.Warn("invalid arguments", "method", method, "err", err)
	}
	return result, err
}

func (d *Deck) invoke(method string, args []any) (any, error) {
	switch method {
	case "next", "previous":
		fade, err := fadeArg(args)
		if err != nil {
			return nil, err
		}
		if method == "next" {
			d.Next(fade)
		} else {
			d.Previous(fade)
		}
	case "fan":
		cfg, err := fanArg(args)
		if err != nil {
			return nil, err
		}
		d.Fan(cfg)
	case "close":
		d.Close()
	case "add", "remove", "merge":
		ids, onDone, err := idsArg(args)
		if err != nil {
			return nil, err
		}
		switch method {
		case "add":
			d.Add(ids, onDone)
		case "remove":
			d.Remove(ids, onDone)
		default:
			d.Merge(ids, onDone)
		}
	case "moveToFront":
		if len(args) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "moveToFront takes one item id")
		}
		id, ok := args[0].(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "moveToFront item id must be a string, got %T", args[0])
		}
		d.MoveToFront(id)
	case "getTop":
		return d.Top(), nil
	case "orderBy":
		if len(args) == 0 || args[0] == nil {
			d.OrderBy(nil)
			return nil, nil
		}
		cmp, ok := args[0].(func(a, b *stack.Item) int)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "orderBy takes a comparator, got %T", args[0])
		}
		d.OrderBy(cmp)
	case "on":
		if len(args) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "on takes one callback")
		}
		fn, ok := args[0].(func())
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "on takes a func(), got %T", args[0])
		}
		return d.On(fn), nil
	case "off":
		if len(args) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "off takes one subscription id")
		}
		switch v := args[0].(type) {
		case SubscriptionID:
			d.Off(v)
		case string:
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "subscription id %q", v)
			}
			d.Off(SubscriptionID(n))
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "off takes a SubscriptionID, got %T", args[0])
		}
	}
	return nil, nil
}

func isMethod(name string) bool {
	for _, m := range Methods {
		if m == name {
			return true
		}
	}
	return false
}

func logger(d *Deck) *log.Logger {
	if d == nil || d.logger == nil {
		return log.Default()
	}
	return d.logger
}

func fadeArg(args []any) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	switch v := args[0].(type) {
	case bool:
		return v, nil
	case string:
		if v == "fade" {
			return true, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, errors.New(errors.ErrCodeInvalidInput, "expected \"fade\" or a bool, got %q", v)
		}
		return b, nil
	}
	return false, errors.New(errors.ErrCodeInvalidInput, "expected \"fade\" or a bool, got %T", args[0])
}

func fanArg(args []any) (*fan.Config, error) {
	if len(args) == 0 {
		return nil, nil
	}
	switch v := args[0].(type) {
	case fan.Config:
		return &v, nil
	case *fan.Config:
		return v, nil
	case []string:
		cfg, err := fan.ParseArgs(v)
		return &cfg, err
	}
	strs := make([]string, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "fan argument %d is %T, not key=value", i, a)
		}
		strs[i] = s
	}
	cfg, err := fan.ParseArgs(strs)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func idsArg(args []any) ([]string, func(), error) {
	var (
		ids    []string
		onDone func()
	)
	for i, a := range args {
		switch v := a.(type) {
		case string:
			ids = append(ids, v)
		case []string:
			ids = append(ids, v...)
		case func():
			if i != len(args)-1 {
				return nil, nil, errors.New(errors.ErrCodeInvalidInput, "completion callback must be the last argument")
			}
			onDone = v
		default:
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "%s is not an item id", describe(a))
		}
	}
	return ids, onDone, nil
}

func describe(v any) string { return fmt.Sprintf("%T", v) }
