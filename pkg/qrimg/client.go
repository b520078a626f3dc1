// Package qrimg builds render URLs for QR code images using an external
// rendering service. Nothing is generated in-process; the admin frontend
// loads the image straight from the renderer, same as the CDN handles the
// gallery.
package qrimg

import (
	"fmt"
	"net/url"
)

const defaultBaseURL = "https://api.qrserver.com/v1/create-qr-code/"

// Client builds QR image URLs.
type Client struct {
	baseURL string
	size    int
}

// NewClient creates a Client with the default renderer and a 240px image.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		size:    240,
	}
}

// ImageURL returns a URL that renders data as a QR code image.
func (c *Client) ImageURL(data string) string {
	return fmt.Sprintf("%s?size=%dx%d&data=%s", c.baseURL, c.size, c.size, url.QueryEscape(data))
}
