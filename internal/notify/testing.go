package notify

// SetTestEndpoint overrides the push API URL on a client for testing.
// This should only be used in tests.
func SetTestEndpoint(c *Client, endpoint string) {
	if endpoint != "" {
		c.endpoint = endpoint
	}
}
