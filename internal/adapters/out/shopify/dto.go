package shopify

import (
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// orderFields limits responses to what the fulfillment core reads.
const orderFields = "id,name,tags,created_at,phone,customer,shipping_address,billing_address"

type orderEnvelope struct {
	Order orderDTO `json:"order"`
}

type ordersEnvelope struct {
	Orders []orderDTO `json:"orders"`
}

type orderDTO struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Tags            string      `json:"tags"`
	CreatedAt       time.Time   `json:"created_at"`
	Phone           string      `json:"phone"`
	Customer        *contactDTO `json:"customer"`
	ShippingAddress *contactDTO `json:"shipping_address"`
	BillingAddress  *contactDTO `json:"billing_address"`
}

type contactDTO struct {
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"`
}

type tagsUpdateEnvelope struct {
	Order tagsUpdateDTO `json:"order"`
}

type tagsUpdateDTO struct {
	ID   int64  `json:"id"`
	Tags string `json:"tags"`
}

// customer picks the first phone and first name found on the customer record,
// the order itself, the shipping address and the billing address, in that order.
func (o orderDTO) customer() order.Customer {
	var c order.Customer
	for _, src := range []*contactDTO{o.Customer, {Phone: o.Phone}, o.ShippingAddress, o.BillingAddress} {
		if src == nil {
			continue
		}
		if c.Phone == "" {
			c.Phone = strings.TrimSpace(src.Phone)
		}
		if c.FirstName == "" {
			c.FirstName = strings.TrimSpace(src.FirstName)
		}
	}
	return c
}
