/*
Package sdconnector is a client for the SD Løn SOAP web services.

A Connector is constructed with an institution identifier and a set of
credentials, and exposes one retrieval method per SD endpoint:

	sd, err := sdconnector.New("BZ", "username", "password")
	if err != nil {
		// ...
	}
	defer sd.Close()

	org, err := sd.GetOrganization(context.Background(), sdconnector.OrganizationQuery{})

Queries left at their zero value use the connector's institution identifier
and the same parameter defaults SD documents for each endpoint. Failed calls
return a *ConnectionError, *AuthenticationError or *ResponseParseError;
transport failures are retried with exponential backoff unless retries are
disabled through WithRetry.

Callers who need the raw response document can use Connector.Call or a
SoapClient directly.
*/
package sdconnector
