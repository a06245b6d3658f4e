package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarabibeach/booking-intake/internal/model"
	"github.com/sarabibeach/booking-intake/internal/shopify"
)

func metafieldByKey(t *testing.T, metafields []shopify.Metafield, key string) shopify.Metafield {
	t.Helper()
	for _, mf := range metafields {
		if mf.Key == key {
			return mf
		}
	}
	require.Failf(t, "metafield not found", "key %q", key)
	return shopify.Metafield{}
}

func TestBuildMetafields(t *testing.T) {
	metafields := BuildMetafields("booking", BookingMetafields, annaBianchi())

	require.Len(t, metafields, 6)

	assert.Equal(t, shopify.Metafield{
		Namespace: "booking", Key: "birthday", Type: TypeDate, Value: "1990-06-15",
	}, metafieldByKey(t, metafields, "birthday"))
	assert.Equal(t, shopify.Metafield{
		Namespace: "booking", Key: "date_request", Type: TypeDate, Value: "2024-12-25",
	}, metafieldByKey(t, metafields, "date_request"))
	assert.Equal(t, shopify.Metafield{
		Namespace: "booking", Key: "participants", Type: TypeNumberInteger, Value: "2",
	}, metafieldByKey(t, metafields, "participants"))
	assert.Equal(t, TypeMultiLine, metafieldByKey(t, metafields, "notes").Type)
	assert.Equal(t, TypeSingleLine, metafieldByKey(t, metafields, "service").Type)
}

func TestBuildMetafieldsSkipsEmptyValues(t *testing.T) {
	metafields := BuildMetafields("custom", BookingMetafields, &model.BookingRequest{
		Service: "Massage",
		Notes:   "   ",
	})

	require.Len(t, metafields, 1)
	assert.Equal(t, "custom", metafields[0].Namespace)
	assert.Equal(t, "service", metafields[0].Key)
}

func TestBuildMetafieldsTypeFallback(t *testing.T) {
	metafields := BuildMetafields("booking", BookingMetafields, &model.BookingRequest{
		Birthday:     "next tuesday",
		DateRequest:  "2024-12-25",
		Participants: "2 adults, 1 child",
	})

	require.Len(t, metafields, 3)
	birthday := metafieldByKey(t, metafields, "birthday")
	assert.Equal(t, TypeSingleLine, birthday.Type)
	assert.Equal(t, "next tuesday", birthday.Value)

	assert.Equal(t, TypeDate, metafieldByKey(t, metafields, "date_request").Type)
	assert.Equal(t, TypeSingleLine, metafieldByKey(t, metafields, "participants").Type)
}

func TestBuildCustomerInput(t *testing.T) {
	req := &model.BookingRequest{
		FirstName:        " Anna ",
		LastName:         "Bianchi",
		Email:            "anna@example.com",
		Phone:            "no phone",
		ConsentMarketing: "off",
	}

	input := BuildCustomerInput(req, nil)

	assert.Equal(t, "Anna", input.FirstName)
	assert.Empty(t, input.Phone)
	assert.Nil(t, input.Metafields)
	require.NotNil(t, input.EmailMarketingConsent)
	assert.Equal(t, shopify.MarketingStateUnsubscribed, input.EmailMarketingConsent.MarketingState)
}
