package pinapi

import "fmt"

// ExtensionDescriptor declares an extension to instantiate at client
// construction. New receives the client's bound Operations and returns the
// extension instance, stored under Key in Client.Extensions.
type ExtensionDescriptor struct {
	Key string
	New func(ops Operations) any
}

// initExtensions instantiates descriptors in order. A later descriptor
// reusing a key overwrites the earlier instance.
func (c *Client) initExtensions(descriptors []ExtensionDescriptor) error {
	for _, d := range descriptors {
		if d.Key == "" || d.New == nil {
			return fmt.Errorf("%w: key %q requires a non-empty key and a constructor", ErrInvalidExtension, d.Key)
		}
		c.Extensions[d.Key] = d.New(c)
	}
	return nil
}

// Extension returns the extension instance registered under key.
func (c *Client) Extension(key string) (any, bool) {
	ext, ok := c.Extensions[key]
	return ext, ok
}
