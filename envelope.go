package sdconnector

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
)

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// operationNamespace derives the request namespace from the version suffix
// of an operation name, e.g. GetProfession20080201 uses the 20080201 schema.
func operationNamespace(operation string) string {
	version := "20111201"
	if n := len(operation); n >= 8 {
		suffix := operation[n-8:]
		if strings.IndexFunc(suffix, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			version = suffix
		}
	}
	return "urn:oio:sd.dk:snitfladebeskrivelse:" + version
}

// buildEnvelope wraps the ordered parameters in a SOAP 1.1 envelope whose
// body element is named after the operation.
func buildEnvelope(operation string, params Params) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", soapEnvelopeNS)
	env.CreateElement("soapenv:Header")
	body := env.CreateElement("soapenv:Body")
	req := body.CreateElement(operation)
	req.CreateAttr("xmlns", operationNamespace(operation))
	for _, f := range params {
		req.CreateElement(f.Name).SetText(f.Value)
	}
	return doc
}

// localName strips any namespace prefix from a tag.
func localName(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

func childByLocal(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if localName(child.Tag) == name {
			return child
		}
	}
	return nil
}

func childText(el *etree.Element, name string) string {
	child := childByLocal(el, name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// collectByLocal walks the element tree and gathers every element with the
// given local name, in document order.
func collectByLocal(el *etree.Element, name string) []*etree.Element {
	var found []*etree.Element
	for _, child := range el.ChildElements() {
		if localName(child.Tag) == name {
			found = append(found, child)
		}
		found = append(found, collectByLocal(child, name)...)
	}
	return found
}

// soapBody locates the Body element of a response document and extracts a
// fault if one is present. Responses whose root is not a SOAP envelope are
// rejected.
func soapBody(doc *etree.Document) (*etree.Element, *Fault, error) {
	root := doc.Root()
	if root == nil {
		return nil, nil, errors.New("empty document")
	}
	if localName(root.Tag) != "Envelope" {
		return nil, nil, errors.New("root element is not a SOAP envelope")
	}
	body := childByLocal(root, "Body")
	if body == nil {
		return nil, nil, errors.New("envelope has no body")
	}
	if faultEl := childByLocal(body, "Fault"); faultEl != nil {
		fault := &Fault{
			Code:   childText(faultEl, "faultcode"),
			Reason: childText(faultEl, "faultstring"),
			Detail: childText(faultEl, "detail"),
		}
		return body, fault, nil
	}
	return body, nil, nil
}

// payloadElement returns the response element of a fault-free document:
// the body child named after the operation, or the first body child when
// the service names its response differently.
func payloadElement(doc *etree.Document, operation string) (*etree.Element, error) {
	body, fault, err := soapBody(doc)
	if err != nil {
		return nil, err
	}
	if fault != nil {
		return nil, errors.New("body contains a fault")
	}
	if el := childByLocal(body, operation); el != nil {
		return el, nil
	}
	children := body.ChildElements()
	if len(children) == 0 {
		return nil, errors.New("body has no response element")
	}
	return children[0], nil
}
