// Package feedback delivers user-facing success and error messages.
package feedback

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"storefront/internal/api"
	"storefront/internal/model"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
)

// Notifier shows short messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Report shows err to the user. Structured field errors are shown one per
// message as "attr - detail"; otherwise the error's own message is used when
// it is meant for users, else fallback.
func Report(n Notifier, err error, fallback string) {
	if n == nil || err == nil {
		return
	}
	for _, msg := range Messages(err, fallback) {
		n.Error(msg)
	}
}

// Fail reports err to n and returns it marked as already shown, so callers
// further up do not print it a second time.
func Fail(n Notifier, err error, fallback string) error {
	if err == nil {
		return nil
	}
	Report(n, err, fallback)
	return &reported{err: err}
}

// Reported marks err as already shown without notifying again. It is for
// errors that were reported where they happened, away from the caller.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &reported{err: err}
}

// IsReported reports whether err was already shown by Fail.
func IsReported(err error) bool {
	var r *reported
	return errors.As(err, &r)
}

type reported struct {
	err error
}

func (r *reported) Error() string { return r.err.Error() }
func (r *reported) Unwrap() error { return r.err }

// Messages returns the user-facing messages of err.
func Messages(err error, fallback string) []string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Errors) > 0 {
			return fieldMessages(apiErr.Errors)
		}
		if apiErr.Message != "" {
			return []string{apiErr.Message}
		}
		return []string{fallback}
	}

	var verrs validate.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessages(verrs)
	}

	var de *model.DomainError
	if errors.As(err, &de) {
		return []string{de.Message}
	}

	return []string{fallback}
}

func fieldMessages(errs []model.FieldError) []string {
	out := make([]string, len(errs))
	for i, fe := range errs {
		out[i] = fe.String()
	}
	return out
}

// Writer prints messages to an io.Writer, one per line.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a Writer printing to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Success(msg string) { w.print("✓", msg) }
func (w *Writer) Error(msg string)   { w.print("✗", msg) }

func (w *Writer) print(mark, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s %s\n", mark, msg)
}

// Log records messages in the log instead of showing them.
type Log struct {
	logger zerolog.Logger
}

// NewLog creates a notifier that writes to logger.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "feedback").Logger()}
}

func (l *Log) Success(msg string) { l.logger.Info().Msg(msg) }
func (l *Log) Error(msg string)   { l.logger.Warn().Msg(msg) }

// Recorder keeps every message. It is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// Successes returns the recorded success messages.
func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

// Errors returns the recorded error messages.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Discard drops every message.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Success(string) {}
func (discard) Error(string)   {}
