package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the part of the Twilio REST API used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioClient sends text messages through Twilio's Messages API.
type TwilioClient struct {
	api  messageCreator
	from string
}

// NewTwilioClient returns a client for the given account credentials sending from the given number.
func NewTwilioClient(accountSID, authToken, from string) *TwilioClient {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioClient{api: client.Api, from: from}
}

// Send creates a message to phone (E.164). The Twilio SDK call does not take a context;
// ctx is only checked before the request.
func (c *TwilioClient) Send(ctx context.Context, phone, message string) error {
	if c.from == "" {
		return fmt.Errorf("sms: twilio sender number not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(c.from)
	params.SetBody(message)
	if _, err := c.api.CreateMessage(params); err != nil {
		return fmt.Errorf("sms: twilio: %w", err)
	}
	return nil
}
