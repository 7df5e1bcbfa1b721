package notifier

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESNotifier sends mail through AWS SES.
type SESNotifier struct {
	client *ses.Client
	from   string
}

func NewSESNotifier(ctx context.Context, region, from string) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESNotifier{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (n *SESNotifier) Notify(ctx context.Context, recipient string, kind Kind, data Data) error {
	msg, err := Render(kind, data)
	if err != nil {
		return err
	}

	_, err = n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: &n.from,
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: &msg.Subject},
			Body: &types.Body{
				Html: &types.Content{Data: &msg.HTMLBody},
				Text: &types.Content{Data: &msg.TextBody},
			},
		},
	})
	return err
}
