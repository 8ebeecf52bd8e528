package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NothingRequested(t *testing.T) {
	c, err := New(context.Background(), "ap-south-1", false, false)
	require.NoError(t, err)
	assert.Nil(t, c.SES)
	assert.Nil(t, c.SNS)
}

func TestNew_OnlyRequestedClients(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	c, err := New(context.Background(), "ap-south-1", false, true)
	require.NoError(t, err)
	assert.Nil(t, c.SES)
	assert.NotNil(t, c.SNS)
}

func TestClientsWrapConfig(t *testing.T) {
	cfg := aws.Config{Region: "ap-south-1"}
	assert.NotNil(t, NewSESClient(cfg))
	assert.NotNil(t, NewSNSClient(cfg))
}
