package sdconnector

import (
	"bytes"
	"context"
	"net/http"
	"strings"
)

// A request represents one SOAP operation about to be posted: the operation
// name, the resolved service URL and the serialized envelope.
type request struct {
	Operation   string `json:"operation"`
	URL         string `json:"url"`
	Envelope    []byte `json:"-"`
	httpRequest *http.Request
}

func newRequest(ctx context.Context, endpoint, operation string, params Params) (request, error) {
	doc := buildEnvelope(operation, params)
	envelope, err := doc.WriteToBytes()
	if err != nil {
		return request{}, err
	}

	url := strings.TrimSuffix(endpoint, "/") + "/" + operation
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(envelope))
	if err != nil {
		return request{}, err
	}
	return request{
		Operation:   operation,
		URL:         url,
		Envelope:    envelope,
		httpRequest: req,
	}, nil
}

func (r *request) addHeaders(creds Credentials) {
	r.httpRequest.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	r.httpRequest.Header.Set("SOAPAction", r.Operation)
	r.httpRequest.SetBasicAuth(creds.Username, creds.Password)
}
