package pinapi

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient     *http.Client
	timeout        time.Duration
	defaultHeaders http.Header
	extensions     []ExtensionDescriptor
}

// WithHTTPClient sets the HTTP client used for every request. The hosting
// application resolves the transport once; the library never detects one.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithRequestHeaders sets default headers merged into every request.
// Content-Type and Authorization are always forced by the client and
// cannot be overridden here.
func WithRequestHeaders(headers http.Header) Option {
	return func(o *clientOptions) {
		o.defaultHeaders = headers.Clone()
	}
}

// WithExtensions registers extension descriptors, instantiated in the
// order given during NewClient.
func WithExtensions(descriptors ...ExtensionDescriptor) Option {
	return func(o *clientOptions) {
		o.extensions = append(o.extensions, descriptors...)
	}
}
