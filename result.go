package sdconnector

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// A Result provides an overview of a completed SOAP call, including timing
// and the HTTP status code. Payload and envelope are deliberately excluded
// from serialized forms.
type Result struct {
	request
	response
}

// Marshal serializes a Result into a byte stream.
func (r *Result) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// ResponseTime reflects the time elapsed while waiting for the response
// after posting the envelope.
func (r *Result) ResponseTime() *time.Duration {
	return &r.Duration
}

// stats returns fields that logrus can parse.
func (r *Result) stats() map[string]interface{} {
	return map[string]interface{}{
		"operation":     r.Operation,
		"url":           r.URL,
		"response_time": r.Duration * time.Millisecond,
		"response_size": r.Size,
		"status_code":   r.StatusCode,
	}
}

// Log provides a convenient way to output information about a SOAP call
// the user is likely to want.
func (r *Result) Log(logger *logrus.Logger) *logrus.Entry {
	return logger.WithFields(r.stats())
}

// LogBrief logs only a call's status code and response time.
func (r *Result) LogBrief(logger *logrus.Logger) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"response_time": r.Duration * time.Millisecond,
		"status_code":   r.StatusCode,
	})
}

// Report captures information that can help with analysis and
// troubleshooting and maps HTTP status classes to analogous log levels.
func (r *Result) Report(logger *logrus.Logger, desc string) {
	switch {
	case r.StatusCode < 300:
		r.Log(logger).Debug(desc)
	case r.StatusCode >= 300 && r.StatusCode < 400:
		r.Log(logger).Warn(desc)
	case r.StatusCode >= 400:
		r.Log(logger).Error(desc)
	}
}
