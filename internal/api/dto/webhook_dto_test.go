package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	req := WebhookRequest{
		Sender:  WebhookSender{Phone: " 5511999998888 ", Name: " Maria "},
		Message: WebhookMessage{Body: "Oi, preciso de ajuda"},
	}

	event, err := req.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "5511999998888", event.Phone)
	assert.Equal(t, "Maria", event.DisplayName)
	assert.Equal(t, "Oi, preciso de ajuda", event.Text)
}

func TestNormalizeRejectsMissingEssentials(t *testing.T) {
	cases := map[string]WebhookRequest{
		"no phone":        {Message: WebhookMessage{Body: "oi"}},
		"no body":         {Sender: WebhookSender{Phone: "5511999998888"}},
		"blank body":      {Sender: WebhookSender{Phone: "5511999998888"}, Message: WebhookMessage{Body: "   "}},
		"empty payload":   {},
		"only a name set": {Sender: WebhookSender{Name: "Maria"}},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := req.Normalize()
			assert.ErrorIs(t, err, ErrMissingEssentials)
		})
	}
}

func TestNormalizeKeepsFreeTextAsIs(t *testing.T) {
	req := WebhookRequest{
		Sender:  WebhookSender{Phone: "5511999998888"},
		Message: WebhookMessage{Body: "  <b>oi</b> 'quoted' \n segunda linha  "},
	}

	event, err := req.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "  <b>oi</b> 'quoted' \n segunda linha  ", event.Text)
}
