package extract

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/corey/jsgettext/internal/ports"
)

// ContextSeparator joins a message context and its id, as gettext does in
// compiled catalogs.
const ContextSeparator = "\x04"

// DefaultKeywords is the keyword table used when none is configured.
func DefaultKeywords() map[string]any {
	return map[string]any{"_": 1}
}

// Registry maps keyword names to transforms. It is built once and never
// mutated, so one Registry can serve concurrent Extract calls.
type Registry struct {
	transforms map[string]Transform
	names      []string // sorted
}

// NewRegistry normalizes keyword configuration. Values may be a Transform,
// a plain func(Match) (Result, error), or a positive integer N meaning
// "the Nth argument, if it is a string literal".
func NewRegistry(keywords map[string]any) (*Registry, error) {
	r := &Registry{
		transforms: make(map[string]Transform, len(keywords)),
		names:      make([]string, 0, len(keywords)),
	}
	for name, v := range keywords {
		if name == "" {
			return nil, &ConfigurationError{Key: name, Reason: "keyword name is empty"}
		}
		fn, err := toTransform(v)
		if err != nil {
			return nil, &ConfigurationError{Key: name, Reason: err.Error()}
		}
		r.transforms[name] = fn
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

func toTransform(v any) (Transform, error) {
	switch t := v.(type) {
	case Transform:
		if t == nil {
			return nil, fmt.Errorf("nil transform")
		}
		return t, nil
	case func(Match) (Result, error):
		if t == nil {
			return nil, fmt.Errorf("nil transform")
		}
		return t, nil
	case int:
		return argTransform(int64(t))
	case int64:
		return argTransform(t)
	case int32:
		return argTransform(int64(t))
	case uint:
		return argTransform(int64(t))
	case uint64:
		return argTransform(int64(t))
	default:
		return nil, fmt.Errorf("want a transform or a positive argument number, got %T", v)
	}
}

func argTransform(n int64) (Transform, error) {
	if n < 1 {
		return nil, fmt.Errorf("argument number must be >= 1, got %d", n)
	}
	return Arg(int(n)), nil
}

// Has reports whether name is a registered keyword.
func (r *Registry) Has(name string) bool {
	_, ok := r.transforms[name]
	return ok
}

// Names returns the registered keyword names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Registry) transform(name string) Transform {
	return r.transforms[name]
}

// stringArg returns the value of the nth (1-based) argument when it is a
// plain string literal.
func stringArg(m Match, n int) (string, bool) {
	if n < 1 || len(m.Arguments) <= n-1 {
		return "", false
	}
	lit, ok := m.Arguments[n-1].(*ports.StringLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// Arg extracts the nth (1-based) argument when it is a string literal.
func Arg(n int) Transform {
	return func(m Match) (Result, error) {
		s, ok := stringArg(m, n)
		if !ok {
			return Empty{}, nil
		}
		return String(s), nil
	}
}

// ContextArg extracts argument id qualified by argument ctx, joined with
// ContextSeparator. Both must be string literals.
func ContextArg(ctx, id int) Transform {
	return func(m Match) (Result, error) {
		c, ok := stringArg(m, ctx)
		if !ok {
			return Empty{}, nil
		}
		s, ok := stringArg(m, id)
		if !ok {
			return Empty{}, nil
		}
		return String(c + ContextSeparator + s), nil
	}
}

// PluralArgs extracts a singular/plural pair, optionally with a context
// argument (ctx 0 means none). The result is a RawRecord holding a
// ports.Message, since a plural pair does not fit the single-string shape.
func PluralArgs(singular, plural, ctx int) Transform {
	return func(m Match) (Result, error) {
		id, ok := stringArg(m, singular)
		if !ok || id == "" {
			return Empty{}, nil
		}
		pl, ok := stringArg(m, plural)
		if !ok {
			return Empty{}, nil
		}
		msg := ports.Message{ID: id, Plural: pl, Line: m.Line}
		if ctx > 0 {
			c, ok := stringArg(m, ctx)
			if !ok {
				return Empty{}, nil
			}
			msg.Context = c
		}
		if m.Comment != "" {
			msg.Comments = []string{m.Comment}
		}
		return RawRecord{Value: msg}, nil
	}
}

// ParseKeywordSpec reads a GNU xgettext --keyword argument:
//
//	name          first argument
//	name:N        Nth argument
//	name:Nc,M     context in argument N, message in argument M
//	name:N,M      singular in N, plural in M (context allowed: name:Kc,N,M)
func ParseKeywordSpec(spec string) (string, Transform, error) {
	name, args, hasArgs := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, &ConfigurationError{Key: spec, Reason: "keyword name is empty"}
	}
	if !hasArgs {
		return name, Arg(1), nil
	}

	var ctx int
	var nums []int
	for _, part := range strings.Split(args, ",") {
		part = strings.TrimSpace(part)
		isCtx := strings.HasSuffix(part, "c")
		n, err := strconv.Atoi(strings.TrimSuffix(part, "c"))
		if err != nil || n < 1 {
			return "", nil, &ConfigurationError{Key: name, Reason: fmt.Sprintf("bad argument spec %q", part)}
		}
		if isCtx {
			if ctx != 0 {
				return "", nil, &ConfigurationError{Key: name, Reason: "more than one context argument"}
			}
			ctx = n
			continue
		}
		nums = append(nums, n)
	}

	switch len(nums) {
	case 1:
		if ctx > 0 {
			return name, ContextArg(ctx, nums[0]), nil
		}
		return name, Arg(nums[0]), nil
	case 2:
		return name, PluralArgs(nums[0], nums[1], ctx), nil
	default:
		return "", nil, &ConfigurationError{Key: name, Reason: fmt.Sprintf("want 1 or 2 message arguments, got %d", len(nums))}
	}
}
