package shopify

import (
	"context"
)

// Marketing states and opt-in levels of the Admin API consent inputs.
const (
	MarketingStateSubscribed   = "SUBSCRIBED"
	MarketingStateUnsubscribed = "UNSUBSCRIBED"

	OptInLevelSingle = "SINGLE_OPT_IN"
)

// MarketingConsent is the consent input shared by email and SMS.
type MarketingConsent struct {
	MarketingState      string `json:"marketingState"`
	MarketingOptInLevel string `json:"marketingOptInLevel,omitempty"`
}

// ConsentFor maps a boolean consent onto a subscribed/unsubscribed state
// with the single opt-in level.
func ConsentFor(subscribed bool) MarketingConsent {
	state := MarketingStateUnsubscribed
	if subscribed {
		state = MarketingStateSubscribed
	}
	return MarketingConsent{MarketingState: state, MarketingOptInLevel: OptInLevelSingle}
}

// Metafield is a namespaced key/type/value triple attached to a resource.
// OwnerID is only sent by metafieldsSet.
type Metafield struct {
	OwnerID   string `json:"ownerId,omitempty"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// CustomerInput is the subset of the Admin API CustomerInput the intake sets.
type CustomerInput struct {
	FirstName             string            `json:"firstName,omitempty"`
	LastName              string            `json:"lastName,omitempty"`
	Email                 string            `json:"email,omitempty"`
	Phone                 string            `json:"phone,omitempty"`
	EmailMarketingConsent *MarketingConsent `json:"emailMarketingConsent,omitempty"`
	Metafields            []Metafield       `json:"metafields,omitempty"`
}

const customerCreateMutation = `
mutation customerCreate($input: CustomerInput!) {
  customerCreate(input: $input) {
    customer { id }
    userErrors { field message }
  }
}`

// CreateCustomer creates a customer and returns its id.
func (c *Client) CreateCustomer(ctx context.Context, input CustomerInput) (string, error) {
	var data struct {
		CustomerCreate struct {
			Customer *struct {
				ID string `json:"id"`
			} `json:"customer"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"customerCreate"`
	}

	const op = "customerCreate"
	if err := c.Do(ctx, op, customerCreateMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return "", err
	}

	if err := checkUserErrors(op, data.CustomerCreate.UserErrors); err != nil {
		return "", err
	}

	if data.CustomerCreate.Customer == nil || data.CustomerCreate.Customer.ID == "" {
		return "", &TransportError{Op: op, StatusCode: 200, Detail: "customer id missing from response"}
	}

	return data.CustomerCreate.Customer.ID, nil
}

const smsConsentMutation = `
mutation customerSmsMarketingConsentUpdate($input: CustomerSmsMarketingConsentUpdateInput!) {
  customerSmsMarketingConsentUpdate(input: $input) {
    customer {
      id
      smsMarketingConsent { marketingState marketingOptInLevel }
    }
    userErrors { field message }
  }
}`

// UpdateSMSConsent sets the SMS marketing consent of an existing customer.
func (c *Client) UpdateSMSConsent(ctx context.Context, customerID string, consent MarketingConsent) error {
	var data struct {
		Update struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"customerSmsMarketingConsentUpdate"`
	}

	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"customerId":          customerID,
			"smsMarketingConsent": consent,
		},
	}

	const op = "customerSmsMarketingConsentUpdate"
	if err := c.Do(ctx, op, smsConsentMutation, variables, &data); err != nil {
		return err
	}

	return checkUserErrors(op, data.Update.UserErrors)
}

const metafieldsSetMutation = `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields { id namespace key }
    userErrors { field message code }
  }
}`

// SetMetafields attaches metafields to their owners in one call.
func (c *Client) SetMetafields(ctx context.Context, metafields []Metafield) error {
	var data struct {
		Set struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}

	const op = "metafieldsSet"
	if err := c.Do(ctx, op, metafieldsSetMutation, map[string]interface{}{"metafields": metafields}, &data); err != nil {
		return err
	}

	return checkUserErrors(op, data.Set.UserErrors)
}

const customerDeleteMutation = `
mutation customerDelete($input: CustomerDeleteInput!) {
  customerDelete(input: $input) {
    deletedCustomerId
    userErrors { field message }
  }
}`

// DeleteCustomer removes a customer. Used to compensate a partial intake.
func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	var data struct {
		Delete struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"customerDelete"`
	}

	const op = "customerDelete"
	variables := map[string]interface{}{"input": map[string]string{"id": customerID}}
	if err := c.Do(ctx, op, customerDeleteMutation, variables, &data); err != nil {
		return err
	}

	return checkUserErrors(op, data.Delete.UserErrors)
}

const tagsAddMutation = `
mutation tagsAdd($id: ID!, $tags: [String!]!) {
  tagsAdd(id: $id, tags: $tags) {
    node { id }
    userErrors { field message }
  }
}`

// AddTags tags a resource. Used to mark a partially configured customer.
func (c *Client) AddTags(ctx context.Context, id string, tags ...string) error {
	var data struct {
		TagsAdd struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"tagsAdd"`
	}

	const op = "tagsAdd"
	if err := c.Do(ctx, op, tagsAddMutation, map[string]interface{}{"id": id, "tags": tags}, &data); err != nil {
		return err
	}

	return checkUserErrors(op, data.TagsAdd.UserErrors)
}

const shopQuery = `query shop { shop { name } }`

// Ping reads the shop name. It verifies reachability and the token.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var data struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}

	if err := c.Do(ctx, "shop", shopQuery, nil, &data); err != nil {
		return "", err
	}

	return data.Shop.Name, nil
}
