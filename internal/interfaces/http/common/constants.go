package common

const (
	// MaxSubmitRequestBody limits JSON request bodies on the public form
	// endpoints. The forms are small; anything bigger is not a browser.
	MaxSubmitRequestBody = 1 << 16
)
