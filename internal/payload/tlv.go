package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	dErrors "bankqr/pkg/domain-errors"
)

// MaxFieldLength is the largest value a two-digit length prefix can describe.
const MaxFieldLength = 99

// ErrFieldTooLong marks a caller contract violation: the value cannot be
// represented behind a two-digit length prefix.
var ErrFieldTooLong = errors.New("field value exceeds 99 characters")

// tlvWriter accumulates tag-length-value fields. The first failure sticks and
// later writes become no-ops, so callers check err once at the end.
type tlvWriter struct {
	b   strings.Builder
	err error
}

func (w *tlvWriter) field(tag, value string) {
	if w.err != nil {
		return
	}
	n := utf8.RuneCountInString(value)
	if n > MaxFieldLength {
		w.err = dErrors.Wrap(
			fmt.Errorf("%w: tag %s has %d characters", ErrFieldTooLong, tag, n),
			dErrors.CodeInvariantViolation,
			"payload field too long",
		)
		return
	}
	w.b.WriteString(tag)
	if n < 10 {
		w.b.WriteByte('0')
	}
	w.b.WriteString(strconv.Itoa(n))
	w.b.WriteString(value)
}

// nested writes a template field whose value is itself a TLV sequence.
func (w *tlvWriter) nested(tag string, build func(inner *tlvWriter)) {
	if w.err != nil {
		return
	}
	var inner tlvWriter
	build(&inner)
	if inner.err != nil {
		w.err = inner.err
		return
	}
	w.field(tag, inner.b.String())
}

func (w *tlvWriter) raw(s string) {
	if w.err == nil {
		w.b.WriteString(s)
	}
}

func (w *tlvWriter) String() string {
	return w.b.String()
}
