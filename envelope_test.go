package sdconnector

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrapBody(payload string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soapenv:Body>` + payload + `</soapenv:Body></soapenv:Envelope>`
}

func parseDoc(t *testing.T, body string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(body))
	return doc
}

func TestBuildEnvelope(t *testing.T) {
	params := OrganizationQuery{InstitutionIdentifier: "BZ"}.Params()
	doc := buildEnvelope(OpGetOrganization, params)

	out, err := doc.WriteToBytes()
	require.NoError(t, err)

	reparsed := etree.NewDocument()
	require.NoError(t, reparsed.ReadFromBytes(out))

	root := reparsed.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Envelope", localName(root.Tag))

	body := childByLocal(root, "Body")
	require.NotNil(t, body)

	req := childByLocal(body, OpGetOrganization)
	require.NotNil(t, req)
	assert.Equal(t, "urn:oio:sd.dk:snitfladebeskrivelse:20111201", req.SelectAttrValue("xmlns", ""))

	children := req.ChildElements()
	require.Len(t, children, len(params))
	for i, f := range params {
		assert.Equal(t, f.Name, children[i].Tag)
		assert.Equal(t, f.Value, children[i].Text())
	}
}

func TestOperationNamespaceVersions(t *testing.T) {
	assert.Equal(t, "urn:oio:sd.dk:snitfladebeskrivelse:20111201", operationNamespace(OpGetOrganization))
	assert.Equal(t, "urn:oio:sd.dk:snitfladebeskrivelse:20080201", operationNamespace(OpGetProfession))
	assert.Equal(t, "urn:oio:sd.dk:snitfladebeskrivelse:20190701", operationNamespace(OpGetDepartmentParent))
	assert.Equal(t, "urn:oio:sd.dk:snitfladebeskrivelse:20111201", operationNamespace("NoVersionHere"))
}

func TestSoapBodyExtractsFault(t *testing.T) {
	doc := parseDoc(t, wrapBody(`<soapenv:Fault>`+
		`<faultcode>soapenv:Client</faultcode>`+
		`<faultstring>Invalid InstitutionIdentifier</faultstring>`+
		`<detail>no such institution</detail>`+
		`</soapenv:Fault>`))

	body, fault, err := soapBody(doc)
	require.NoError(t, err)
	require.NotNil(t, body)
	require.NotNil(t, fault)
	assert.Equal(t, "soapenv:Client", fault.Code)
	assert.Equal(t, "Invalid InstitutionIdentifier", fault.Reason)
	assert.Equal(t, "no such institution", fault.Detail)
	assert.False(t, fault.isAuthentication())
}

func TestFaultAuthenticationDetection(t *testing.T) {
	fault := &Fault{Code: "soapenv:Client", Reason: "Authentication failed"}
	assert.True(t, fault.isAuthentication())

	fault = &Fault{Code: "soapenv:Client", Reason: "error", Detail: "bad credentials"}
	assert.True(t, fault.isAuthentication())
}

func TestSoapBodyRejectsNonEnvelope(t *testing.T) {
	doc := parseDoc(t, `<html><body>gateway error</body></html>`)
	_, _, err := soapBody(doc)
	assert.Error(t, err)
}

func TestPayloadElementPrefersOperationName(t *testing.T) {
	doc := parseDoc(t, wrapBody(`<GetOrganization20111201><InstitutionIdentifier>BZ</InstitutionIdentifier></GetOrganization20111201>`))
	el, err := payloadElement(doc, OpGetOrganization)
	require.NoError(t, err)
	assert.Equal(t, "BZ", childText(el, "InstitutionIdentifier"))
}

func TestPayloadElementFallsBackToFirstChild(t *testing.T) {
	doc := parseDoc(t, wrapBody(`<GetOrganizationResponse><InstitutionIdentifier>BZ</InstitutionIdentifier></GetOrganizationResponse>`))
	el, err := payloadElement(doc, OpGetOrganization)
	require.NoError(t, err)
	assert.Equal(t, "BZ", childText(el, "InstitutionIdentifier"))
}

func TestPayloadElementEmptyBody(t *testing.T) {
	doc := parseDoc(t, wrapBody(``))
	_, err := payloadElement(doc, OpGetOrganization)
	assert.Error(t, err)
}

func TestCollectByLocalIgnoresPrefixes(t *testing.T) {
	doc := parseDoc(t, `<root xmlns:sd="urn:x"><sd:Department/><wrap><Department/></wrap></root>`)
	assert.Len(t, collectByLocal(doc.Root(), "Department"), 2)
}
