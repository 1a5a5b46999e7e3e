package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

func TestSMSChannel_SendMessage(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.PhoneNumber) == "+51922222222" &&
			aws.ToString(in.Message) == "hola" &&
			aws.ToString(in.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue) == "Alquila"
	})).Return(&sns.PublishOutput{MessageId: aws.String("m-1")}, nil)

	ok, err := NewSMSChannel(pub, "Alquila").SendMessage(context.Background(), "+51922222222", "hola")
	require.NoError(t, err)
	assert.True(t, ok)
	pub.AssertExpectations(t)
}

func TestSMSChannel_SendMessage_Error(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	ok, err := NewSMSChannel(pub, "").SendMessage(context.Background(), "+51922222222", "hola")
	assert.Error(t, err)
	assert.False(t, ok)
}
