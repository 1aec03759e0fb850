// Package output carries user facing diagnostics: plain messages, warnings and fatal errors.
package output

import (
	"fmt"
	"io"
)

// MessageType - Severity of a message
type MessageType int

const (
	// Message - written to the output stream only
	Message MessageType = iota
	// Warning - written to the output stream and the diagnostic stream
	Warning
	// Error - like Warning, and the run has to stop
	Error
)

// Fatal - Custom error returned for messages of type Error
type Fatal struct {
	msg string
}

// Error - Used to notify that the run must terminate
func (F Fatal) Error() string {
	if F.msg == "" {
		return "fatal error"
	}
	return F.msg
}

// Sink - Writes formatted messages to an output stream and, for warnings and errors, to a diagnostic stream
type Sink struct {
	stream io.Writer
	diag   io.Writer
}

// NewSink - Returns a pointer to a new Sink
//   - stream receives every message, it may be nil
//   - diag receives warnings and errors
func NewSink(stream, diag io.Writer) *Sink {
	return &Sink{stream: stream, diag: diag}
}

// Output - Formats and writes a message.
// Messages are formatted into a buffer sized for the message, so there is no length limit.
//
// It returns:
//   - err is a Fatal for msgType Error, or a write error from the output stream
func (S *Sink) Output(msgType MessageType, format string, args ...any) (err error) {
	text := fmt.Sprintf(format, args...)

	if msgType != Message && S.diag != nil {
		_, _ = io.WriteString(S.diag, text)
	}

	if S.stream != nil {
		_, err = io.WriteString(S.stream, text)
		if err != nil {
			err = fmt.Errorf("disk write failure: %w", err)
			return
		}
	}

	if msgType == Error {
		err = Fatal{msg: text}
	}

	return
}

// Messagef - Writes a plain message
func (S *Sink) Messagef(format string, args ...any) error {
	return S.Output(Message, format, args...)
}

// Warningf - Writes a warning
func (S *Sink) Warningf(format string, args ...any) error {
	return S.Output(Warning, format, args...)
}

// Errorf - Writes an error and returns it as a Fatal
func (S *Sink) Errorf(format string, args ...any) error {
	return S.Output(Error, format, args...)
}
