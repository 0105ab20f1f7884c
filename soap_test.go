package sdconnector

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testSoapClient(t *testing.T, endpoint string) *SoapClient {
	t.Helper()
	client, err := NewSoapClient(Config{
		Credentials: &Credentials{
			InstitutionIdentifier: "BZ",
			Username:              "user",
			Password:              "hunter2",
		},
		Endpoint: endpoint,
		Logger:   testLogger(),
	})
	require.NoError(t, err)
	return client
}

func TestNewSoapClientRequiresCredentials(t *testing.T) {
	_, err := NewSoapClient(Config{})
	assert.Error(t, err)

	_, err = NewSoapClient(Config{Credentials: &Credentials{InstitutionIdentifier: "BZ", Username: "user"}})
	assert.Error(t, err)
}

func TestSoapClientCallSuccess(t *testing.T) {
	var gotSOAPAction, gotContentType, gotUser, gotPass string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSOAPAction = r.Header.Get("SOAPAction")
		gotContentType = r.Header.Get("Content-Type")
		gotUser, gotPass, _ = r.BasicAuth()
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, wrapBody(`<GetOrganization20111201><InstitutionIdentifier>BZ</InstitutionIdentifier></GetOrganization20111201>`))
	}))
	defer srv.Close()

	client := testSoapClient(t, srv.URL)
	doc, err := client.Call(context.Background(), OpGetOrganization, OrganizationQuery{InstitutionIdentifier: "BZ"}.Params())
	require.NoError(t, err)

	el, err := payloadElement(doc, OpGetOrganization)
	require.NoError(t, err)
	assert.Equal(t, "BZ", childText(el, "InstitutionIdentifier"))

	assert.Equal(t, OpGetOrganization, gotSOAPAction)
	assert.Contains(t, gotContentType, "text/xml")
	assert.Equal(t, "user", gotUser)
	assert.Equal(t, "hunter2", gotPass)
	assert.Contains(t, string(gotBody), "<InstitutionIdentifier>BZ</InstitutionIdentifier>")
}

func TestSoapClientCallUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := testSoapClient(t, srv.URL)
	_, err := client.Call(context.Background(), OpGetOrganization, nil)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.False(t, IsRetryable(err))
}

func TestSoapClientCallAuthenticationFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, wrapBody(`<soapenv:Fault>`+
			`<faultcode>soapenv:Client</faultcode>`+
			`<faultstring>Authentication failed for user</faultstring>`+
			`</soapenv:Fault>`))
	}))
	defer srv.Close()

	client := testSoapClient(t, srv.URL)
	_, err := client.Call(context.Background(), OpGetOrganization, nil)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	require.NotNil(t, authErr.Fault)
	assert.Contains(t, authErr.Fault.Reason, "Authentication failed")
}

func TestSoapClientCallServiceFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, wrapBody(`<soapenv:Fault>`+
			`<faultcode>soapenv:Client</faultcode>`+
			`<faultstring>Invalid DepartmentIdentifier</faultstring>`+
			`</soapenv:Fault>`))
	}))
	defer srv.Close()

	client := testSoapClient(t, srv.URL)
	_, err := client.Call(context.Background(), OpGetDepartment, nil)

	var parseErr *ResponseParseError
	require.ErrorAs(t, err, &parseErr)
	require.NotNil(t, parseErr.Fault)
	assert.Equal(t, "Invalid DepartmentIdentifier", parseErr.Fault.Reason)
	assert.False(t, IsRetryable(err))
}

func TestSoapClientCallMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "this is not xml at all")
	}))
	defer srv.Close()

	client := testSoapClient(t, srv.URL)
	_, err := client.Call(context.Background(), OpGetOrganization, nil)

	var parseErr *ResponseParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSoapClientCallServerErrorWithoutFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html><body>bad gateway</body></html>")
	}))
	defer srv.Close()

	client := testSoapClient(t, srv.URL)
	_, err := client.Call(context.Background(), OpGetOrganization, nil)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.True(t, IsRetryable(err))
}

func TestSoapClientCallContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect and
		// cancels the request context; otherwise Close blocks forever.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := testSoapClient(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Call(ctx, OpGetOrganization, nil)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSoapClientCallUnreachableService(t *testing.T) {
	// Reserved TEST-NET-1 address, nothing listens there.
	client := testSoapClient(t, "http://192.0.2.1:9")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Call(ctx, OpGetOrganization, nil)

	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}
