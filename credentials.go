package sdconnector

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Config collects everything a Connector or SoapClient needs. Zero values
// fall back to the SD production service and its documented defaults.
type Config struct {
	Credentials *Credentials
	Endpoint    string
	Timeout     time.Duration
	Logger      *logrus.Logger
	HTTPClient  *http.Client
	Retry       RetryConfig
}

// Credentials identify an SD institution and the user authorized to query
// it. The password is sent with every request using HTTP basic auth and is
// never logged or serialized.
type Credentials struct {
	InstitutionIdentifier string `json:"institution_identifier"`
	Username              string `json:"username"`
	Password              string `json:"-"`
}

func (c *Credentials) areInvalid() bool {
	if len(c.InstitutionIdentifier) < 1 || len(c.Username) < 1 || len(c.Password) < 1 {
		return true
	}
	return false
}
