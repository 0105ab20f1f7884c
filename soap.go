package sdconnector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultEndpoint is the SD production web service.
	DefaultEndpoint = "https://service.sd.dk/sdws/"

	// DefaultTimeout bounds a single request round-trip.
	DefaultTimeout = 60 * time.Second
)

// Log is the package default logger, used when a Config carries none.
var Log = logrus.New()

// A SoapClient posts SD SOAP envelopes over HTTP basic auth and returns the
// parsed response documents. A more convenient typed client is Connector.
type SoapClient struct {
	endpoint   string
	creds      Credentials
	httpClient *http.Client
	log        *logrus.Logger
}

// NewSoapClient returns a client for the configured endpoint. The
// credentials must all be present; beyond presence they are only verified
// by the remote service on the first call.
func NewSoapClient(cfg Config) (*SoapClient, error) {
	if cfg.Credentials == nil || cfg.Credentials.areInvalid() {
		return nil, errors.New("sd: institution identifier, username and password are all required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = Log
	}

	return &SoapClient{
		endpoint:   endpoint,
		creds:      *cfg.Credentials,
		httpClient: httpClient,
		log:        logger,
	}, nil
}

// Call posts one operation and returns the parsed response document. The
// context bounds the whole round-trip; cancellation surfaces as a
// *ConnectionError.
func (s *SoapClient) Call(ctx context.Context, operation string, params Params) (*etree.Document, error) {
	req, err := newRequest(ctx, s.endpoint, operation, params)
	if err != nil {
		return nil, &ConnectionError{Operation: operation, Err: err}
	}
	req.addHeaders(s.creds)

	resp, err := doRequest(s.httpClient, req.httpRequest)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"operation": operation,
			"error":     err,
		}).Error("SoapClient.Call")
		return nil, &ConnectionError{Operation: operation, Err: err}
	}

	result := Result{req, resp}
	result.Report(s.log, "SoapClient.Call")

	return s.shapeResponse(operation, result)
}

// shapeResponse classifies a completed exchange into a document or one of
// the error kinds. SOAP faults win over the HTTP status: SD reports faults
// with status 500.
func (s *SoapClient) shapeResponse(operation string, result Result) (*etree.Document, error) {
	if result.StatusCode == http.StatusUnauthorized || result.StatusCode == http.StatusForbidden {
		return nil, &AuthenticationError{Operation: operation, StatusCode: result.StatusCode}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(result.Payload); err != nil || doc.Root() == nil {
		if result.StatusCode >= 300 {
			return nil, &ConnectionError{
				Operation: operation,
				Err:       fmt.Errorf("unexpected status %s", result.Status),
			}
		}
		if err == nil {
			err = errors.New("no XML root element")
		}
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}

	_, fault, err := soapBody(doc)
	if err != nil {
		if result.StatusCode >= 300 {
			return nil, &ConnectionError{
				Operation: operation,
				Err:       fmt.Errorf("unexpected status %s", result.Status),
			}
		}
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}
	if fault != nil {
		if fault.isAuthentication() {
			return nil, &AuthenticationError{Operation: operation, StatusCode: result.StatusCode, Fault: fault}
		}
		return nil, &ResponseParseError{Operation: operation, Fault: fault}
	}
	if result.StatusCode >= 300 {
		return nil, &ConnectionError{
			Operation: operation,
			Err:       fmt.Errorf("unexpected status %s", result.Status),
		}
	}
	return doc, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (s *SoapClient) Close() {
	s.httpClient.CloseIdleConnections()
}
