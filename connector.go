package sdconnector

import (
	"context"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
	hashids "github.com/speps/go-hashids/v2"
)

// SD operation names, version suffix included.
const (
	OpGetDepartment              = "GetDepartment20111201"
	OpGetDepartmentParent        = "GetDepartmentParent20190701"
	OpGetInstitution             = "GetInstitution20111201"
	OpGetOrganization            = "GetOrganization20111201"
	OpGetEmployment              = "GetEmployment20111201"
	OpGetEmploymentChanged       = "GetEmploymentChanged20111201"
	OpGetEmploymentChangedAtDate = "GetEmploymentChangedAtDate20111201"
	OpGetPerson                  = "GetPerson20111201"
	OpGetPersonChangedAtDate     = "GetPersonChangedAtDate20111201"
	OpGetProfession              = "GetProfession20080201"
)

// An Option adjusts the configuration a Connector is built with.
type Option func(*Config)

// WithEndpoint points the connector at a different service URL.
func WithEndpoint(endpoint string) Option {
	return func(cfg *Config) { cfg.Endpoint = endpoint }
}

// WithTimeout bounds each request round-trip.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) { cfg.Timeout = timeout }
}

// WithLogger replaces the package default logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}

// WithHTTPClient substitutes the transport, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *Config) { cfg.HTTPClient = c }
}

// WithRetry replaces the default retry policy. MaxAttempts of 1 disables
// retries entirely, guaranteeing one remote call per invocation.
func WithRetry(retry RetryConfig) Option {
	return func(cfg *Config) { cfg.Retry = retry }
}

// A Connector is a typed handle to the SD web services, fixed to one
// institution and one set of credentials. It holds no state between calls;
// retrieval methods are independent and safe to call concurrently.
type Connector struct {
	ID string

	creds Credentials
	retry RetryConfig
	soap  *SoapClient
	log   *logrus.Logger
}

// New returns a Connector for the given institution. All three arguments
// are required; they are only validated for presence, so bad credentials
// surface as an AuthenticationError on the first call.
func New(institutionIdentifier, username, password string, opts ...Option) (*Connector, error) {
	cfg := Config{
		Credentials: &Credentials{
			InstitutionIdentifier: institutionIdentifier,
			Username:              username,
			Password:              password,
		},
		Retry: DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	soap, err := NewSoapClient(cfg)
	if err != nil {
		return nil, err
	}

	hd := hashids.NewData()
	hd.Salt = "sd-connector"
	hd.MinLength = 8
	var id string
	if h, err := hashids.NewWithData(hd); err == nil {
		id, _ = h.EncodeInt64([]int64{time.Now().UnixNano() & 0xffffffff})
	}

	logger := cfg.Logger
	if logger == nil {
		logger = Log
	}

	return &Connector{
		ID:    id,
		creds: *cfg.Credentials,
		retry: cfg.Retry,
		soap:  soap,
		log:   logger,
	}, nil
}

// String implements fmt.Stringer.
func (c *Connector) String() string {
	return c.ID
}

// InstitutionIdentifier returns the institution this connector is fixed to.
func (c *Connector) InstitutionIdentifier() string {
	return c.creds.InstitutionIdentifier
}

// Close releases idle connections held by the underlying SOAP client.
func (c *Connector) Close() {
	c.soap.Close()
}

// Call posts a raw operation with the given parameters and returns the
// response document, applying the connector's retry policy.
func (c *Connector) Call(ctx context.Context, operation string, params Params) (*etree.Document, error) {
	entry := c.log.WithFields(logrus.Fields{
		"connector": c.ID,
		"operation": operation,
	})
	entry.Debug("Connector.Call")

	doc, err := retryWithBackoff(ctx, c.retry, c.log, func(ctx context.Context) (*etree.Document, error) {
		return c.soap.Call(ctx, operation, params)
	})
	if err != nil {
		entry.WithField("error", err).Error("Connector.Call")
		return nil, err
	}
	return doc, nil
}

// institution fills an empty identifier with the connector's own.
func (c *Connector) institution(id string) string {
	if id == "" {
		return c.creds.InstitutionIdentifier
	}
	return id
}

// GetDepartment returns the departments matching the query.
func (c *Connector) GetDepartment(ctx context.Context, q DepartmentQuery) ([]Department, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetDepartment, q.Params())
	if err != nil {
		return nil, err
	}
	return decodeDepartments(doc, OpGetDepartment)
}

// GetDepartmentParent returns the parent of the department named by the
// query.
func (c *Connector) GetDepartmentParent(ctx context.Context, q DepartmentParentQuery) (*DepartmentParent, error) {
	doc, err := c.Call(ctx, OpGetDepartmentParent, q.Params())
	if err != nil {
		return nil, err
	}
	return decodeDepartmentParent(doc, OpGetDepartmentParent)
}

// GetInstitution returns the institutions matching the query.
func (c *Connector) GetInstitution(ctx context.Context, q InstitutionQuery) ([]Institution, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetInstitution, q.Params())
	if err != nil {
		return nil, err
	}
	return decodeInstitutions(doc, OpGetInstitution)
}

// GetOrganization returns the organization of the connector's institution,
// or of the institution named by the query.
func (c *Connector) GetOrganization(ctx context.Context, q OrganizationQuery) (*Organization, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetOrganization, q.Params())
	if err != nil {
		return nil, err
	}
	return decodeOrganization(doc, OpGetOrganization)
}

// GetEmployment returns the employments effective at the query date.
func (c *Connector) GetEmployment(ctx context.Context, q EmploymentQuery) ([]Employment, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetEmployment, q.Params())
	if err != nil {
		return nil, err
	}
	return decodeEmployments(doc, OpGetEmployment)
}

// GetEmploymentChanged returns the employments changed within the query
// window.
func (c *Connector) GetEmploymentChanged(ctx context.Context, q EmploymentChangedQuery) ([]Employment, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetEmploymentChanged, q.Params())
	if err != nil {
		return nil, err
	}
	return decodeEmployments(doc, OpGetEmploymentChanged)
}

// GetEmploymentChangedAtDate returns the employment changes registered
// within the query window.
func (c *Connector) GetEmploymentChangedAtDate(ctx context.Context, q EmploymentChangedAtDateQuery) ([]Employment, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetEmploymentChangedAtDate, q.Params())
	if err != nil {
		return nil, err
	}
	return decodeEmployments(doc, OpGetEmploymentChangedAtDate)
}

// GetPerson returns the persons matching the query.
func (c *Connector) GetPerson(ctx context.Context, q PersonQuery) ([]Person, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetPerson, q.Params())
	if err != nil {
		return nil, err
	}
	return decodePersons(doc, OpGetPerson)
}

// GetPersonChangedAtDate returns the person changes registered within the
// query window.
func (c *Connector) GetPersonChangedAtDate(ctx context.Context, q PersonChangedAtDateQuery) ([]Person, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetPersonChangedAtDate, q.Params())
	if err != nil {
		return nil, err
	}
	return decodePersons(doc, OpGetPersonChangedAtDate)
}

// GetProfession returns the profession catalog of the institution.
func (c *Connector) GetProfession(ctx context.Context, q ProfessionQuery) ([]Profession, error) {
	q.InstitutionIdentifier = c.institution(q.InstitutionIdentifier)
	doc, err := c.Call(ctx, OpGetProfession, q.Params())
	if err != nil {
		return nil, err
	}
	return decodeProfessions(doc, OpGetProfession)
}
