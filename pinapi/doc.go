// Package pinapi provides a client for a remote pin management API.
//
// Pins are positioned annotation records grouped by a caller-defined meta
// ID. The client exposes typed CRUD operations plus a metadata lookup, all
// authenticated with a three-segment bearer key.
//
// # Usage
//
// Create a client with your API URL and bearer key:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := pinapi.NewClient(
//		"https://pins.example.com",
//		"header.payload.signature",
//		logger,
//		pinapi.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	pins, err := client.GetPins(ctx, "floor-2")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The client is stateless per call and safe for concurrent use; its only
// long-lived state is the construction-time configuration and the extension
// registry. It never retries, caches, or applies field defaults — those are
// the server's job.
//
// # Extensions
//
// Third-party modules can extend the client with namespaced functionality.
// An ExtensionDescriptor pairs a key with a factory taking the client's
// bound Operations:
//
//	client, err := pinapi.NewClient(apiURL, key, logger,
//		pinapi.WithExtensions(pinapi.ExtensionDescriptor{
//			Key: "search",
//			New: func(ops pinapi.Operations) any { return myext.New(ops) },
//		}),
//	)
//	ext := client.Extensions["search"]
//
// Descriptors are instantiated in order during NewClient; a duplicate key
// silently overwrites the earlier instance.
//
// # Error Handling
//
// Construction fails with ErrMissingURL, ErrMissingKey or ErrMalformedKey.
// Responses with a status above 399 surface as *APIError carrying the
// parsed JSON body and the status code:
//
//	var apiErr *pinapi.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// handle missing resource
//	}
//
// Transport failures and malformed response bodies propagate unmodified.
package pinapi
