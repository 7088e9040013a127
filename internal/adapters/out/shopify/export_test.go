package shopify

import "strings"

// BaseURLForTest returns the shop URL without the API path.
func (c *Client) BaseURLForTest() string {
	base, _, _ := strings.Cut(c.base, "/admin/api/")
	return base
}
