package protocol

import (
	"bytes"
	"encoding/xml"
	"html"
	"regexp"
	"strings"
)

// Dialect selects the envelope shape accepted by an endpoint.
type Dialect string

const (
	// DialectLegacy uses an "ns" prefixed body element.
	DialectLegacy Dialect = "legacy"
	// DialectCurrent declares the namespace as default on the operation element.
	DialectCurrent Dialect = "current"
)

const (
	soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	operationName  = "QueryDataLogin"
)

// BuildEnvelope wraps a signed command into the SOAP body understood by the
// upstream. Only three string fields are carried: request, login and hmac.
func BuildEnvelope(dialect Dialect, namespace, command, login, signature string) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)

	switch dialect {
	case DialectCurrent:
		b.WriteString(`<soap:Envelope xmlns:soap="` + soapEnvelopeNS + `"><soap:Body>`)
		b.WriteString(`<` + operationName + ` xmlns="`)
		escapeInto(&b, namespace)
		b.WriteString(`">`)
		writeField(&b, "", "request", command)
		writeField(&b, "", "login", login)
		writeField(&b, "", "hmac", signature)
		b.WriteString(`</` + operationName + `></soap:Body></soap:Envelope>`)
	default:
		b.WriteString(`<soapenv:Envelope xmlns:soapenv="` + soapEnvelopeNS + `" xmlns:ns="`)
		escapeInto(&b, namespace)
		b.WriteString(`"><soapenv:Header/><soapenv:Body>`)
		b.WriteString(`<ns:` + operationName + `>`)
		writeField(&b, "ns:", "request", command)
		writeField(&b, "ns:", "login", login)
		writeField(&b, "ns:", "hmac", signature)
		b.WriteString(`</ns:` + operationName + `></soapenv:Body></soapenv:Envelope>`)
	}

	return b.String()
}

func writeField(b *bytes.Buffer, prefix, name, value string) {
	b.WriteString("<" + prefix + name + ">")
	escapeInto(b, value)
	b.WriteString("</" + prefix + name + ">")
}

func escapeInto(b *bytes.Buffer, value string) {
	// xml.EscapeText only fails when the writer does.
	_ = xml.EscapeText(b, []byte(value))
}

var returnPattern = regexp.MustCompile(`(?s)<(?:[\w.-]+:)?return(?:\s[^>]*?)?(?:/>|>(.*?)</(?:[\w.-]+:)?return\s*>)`)

const (
	responseOpen  = "<response"
	responseClose = "</response>"
)

// ExtractResultData returns the inner payload of a raw response. It accepts
// a prefixed or unprefixed <return> wrapper holding an entity-escaped payload,
// and a bare <response> document. ok is false when no payload shape is found;
// an empty string with ok true is a well-formed empty answer.
func ExtractResultData(raw string) (payload string, ok bool) {
	if m := returnPattern.FindStringSubmatch(raw); m != nil {
		inner := strings.TrimSpace(m[1])
		if strings.HasPrefix(inner, "<![CDATA[") && strings.HasSuffix(inner, "]]>") {
			return strings.TrimSpace(inner[len("<![CDATA[") : len(inner)-len("]]>")]), true
		}
		return strings.TrimSpace(html.UnescapeString(inner)), true
	}

	if start, end := strings.Index(raw, responseOpen), strings.LastIndex(raw, responseClose); start >= 0 && end > start {
		return raw[start : end+len(responseClose)], true
	}

	if start := strings.Index(raw, "&lt;response"); start >= 0 {
		text := html.UnescapeString(raw[start:])
		if end := strings.LastIndex(text, responseClose); end >= 0 {
			return text[:end+len(responseClose)], true
		}
	}

	return "", false
}
