package protocol

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	denialMarker       = "E_ACCESSDENIED"
	signatureMarker    = "mac check failed"
	subscriptionMarker = "no active subscription"

	defaultTimeout = 30 * time.Second
)

// Fault codes that mean "nothing to answer" rather than a broken call.
var softFaultMarkers = []string{
	"E_NOTSUPPORTED",
	"E_CATALOGNOTEXISTS",
	"E_UNKNOWNCOMMAND",
}

type Endpoint struct {
	URL     string
	Dialect Dialect
}

// ServiceConfig parameterizes one upstream service: the primary catalog and
// the aftermarket service are two instances of the same CommandClient.
type ServiceConfig struct {
	Name                 string
	Endpoints            []Endpoint
	Namespace            string
	SOAPAction           string
	Credentials          Credentials
	Timeout              time.Duration
	MaxRequestsPerSecond int
}

// Querier executes a command and returns the extracted payload.
type Querier interface {
	Query(ctx context.Context, cmd Command) (payload string, ok bool, err error)
}

type CommandClient struct {
	name        string
	endpoints   []Endpoint
	namespace   string
	soapAction  string
	credentials Credentials
	timeout     time.Duration
	rl          ratelimit.Limiter
	httpClient  *resty.Client
	metrics     *callMetrics
}

// NewCommandClient validates cfg and builds a client. Blank credentials or
// an empty endpoint list fail with a ConfigurationError.
func NewCommandClient(cfg ServiceConfig) (*CommandClient, error) {
	if err := cfg.Credentials.validate(cfg.Name); err != nil {
		return nil, err
	}
	if len(cfg.Endpoints) == 0 {
		return nil, &ConfigurationError{Service: cfg.Name, Field: "endpoints"}
	}
	for _, ep := range cfg.Endpoints {
		if strings.TrimSpace(ep.URL) == "" {
			return nil, &ConfigurationError{Service: cfg.Name, Field: "endpoint url"}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	metrics, err := newCallMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s call metrics: %w", cfg.Name, err)
	}

	// Single shot per endpoint: fallback across endpoints replaces retries.
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "text/xml; charset=utf-8").
		SetHeader("Accept", "text/xml")

	soapAction := cfg.SOAPAction
	if soapAction == "" {
		soapAction = "urn:" + operationName
	}

	return &CommandClient{
		name:        cfg.Name,
		endpoints:   cfg.Endpoints,
		namespace:   cfg.Namespace,
		soapAction:  soapAction,
		credentials: cfg.Credentials,
		timeout:     timeout,
		rl:          rl,
		httpClient:  httpClient,
		metrics:     metrics,
	}, nil
}

func (c *CommandClient) Name() string {
	return c.name
}

// Execute signs cmd and posts it to the first endpoint, falling back to the
// next one only on a TransportError. A denial is surfaced immediately.
func (c *CommandClient) Execute(ctx context.Context, cmd Command) (string, error) {
	command := cmd.String()
	signature := c.credentials.Sign(command)

	var lastErr error
	for i, ep := range c.endpoints {
		if ctx.Err() != nil {
			return "", &TransportError{Endpoint: ep.URL, Err: ctx.Err()}
		}

		started := time.Now()
		raw, err := c.post(ctx, ep, command, signature)
		c.metrics.record(ctx, c.name, cmd.Verb(), started, err)
		if err == nil {
			log.Debugf("Executed %s on %s endpoint %s", cmd.Verb(), c.name, ep.URL)
			return raw, nil
		}

		if !IsTransport(err) {
			return "", err
		}

		lastErr = err
		if i < len(c.endpoints)-1 {
			log.Warnf("🔄 %s failed on %s, falling back to %s: %v", cmd.Verb(), ep.URL, c.endpoints[i+1].URL, err)
		}
	}

	log.Errorf("❌ %s failed on every %s endpoint: %v", cmd.Verb(), c.name, lastErr)
	return "", lastErr
}

// Query executes cmd and extracts its payload. ok is false when the response
// carried no payload, which callers treat as a soft-empty outcome.
func (c *CommandClient) Query(ctx context.Context, cmd Command) (string, bool, error) {
	raw, err := c.Execute(ctx, cmd)
	if err != nil {
		return "", false, err
	}

	payload, ok := ExtractResultData(raw)
	return payload, ok, nil
}

func (c *CommandClient) post(ctx context.Context, ep Endpoint, command, signature string) (string, error) {
	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	envelope := BuildEnvelope(ep.Dialect, c.namespace, command, c.credentials.Login, signature)

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		SetHeader("SOAPAction", c.soapAction).
		SetBody(envelope).
		Post(ep.URL)
	if err != nil {
		return "", &TransportError{Endpoint: ep.URL, Err: err}
	}

	body := resp.String()
	if reason, denied := detectDenial(body); denied {
		return "", &AccessDeniedError{Service: c.name, Reason: reason}
	}
	if isSoftFault(body) {
		log.Debugf("%s answered with a soft fault, treating as empty", ep.URL)
		return body, nil
	}
	if !resp.IsSuccess() {
		return "", &TransportError{Endpoint: ep.URL, StatusCode: resp.StatusCode()}
	}

	return body, nil
}

// detectDenial classifies a denial from the body text, independent of the HTTP status.
func detectDenial(body string) (DenialReason, bool) {
	if !strings.Contains(body, denialMarker) {
		return "", false
	}
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, signatureMarker):
		return DenialSignature, true
	case strings.Contains(lower, subscriptionMarker):
		return DenialSubscription, true
	default:
		return DenialUnknown, true
	}
}

func isSoftFault(body string) bool {
	for _, marker := range softFaultMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

func (c *CommandClient) Close() error {
	return c.httpClient.Close()
}
