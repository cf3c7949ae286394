package modbus

// ClientOption client option for user.
type ClientOption func(*RTUClient)

// WithLogProvider set logger provider.
func WithLogProvider(provider LogProvider) ClientOption {
	return func(c *RTUClient) {
		c.SetLogProvider(provider)
	}
}

// WithEnableLogger enable log output when you has set logger.
func WithEnableLogger() ClientOption {
	return func(c *RTUClient) {
		c.LogMode(true)
	}
}

// WithBaudRate enables the inter-frame silence before each request,
// computed for the given line speed.
func WithBaudRate(baud int) ClientOption {
	return func(c *RTUClient) {
		c.baudRate = baud
	}
}
