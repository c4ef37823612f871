package digitalocean

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = input
	b, _ := io.ReadAll(input.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	spaces := &Spaces{client: fake, bucket: "bot-dashboard"}

	require.NoError(t, spaces.Upload(context.Background(), "logs/2024-05-01/default.txt", strings.NewReader("line\n")))
	assert.Equal(t, "bot-dashboard", aws.StringValue(fake.input.Bucket))
	assert.Equal(t, "logs/2024-05-01/default.txt", aws.StringValue(fake.input.Key))
	assert.Equal(t, "private", aws.StringValue(fake.input.ACL))
	assert.Equal(t, "line\n", fake.body)
}

func TestUploadError(t *testing.T) {
	spaces := &Spaces{client: &fakeS3{err: errors.New("forbidden")}, bucket: "b"}
	assert.Error(t, spaces.Upload(context.Background(), "k", strings.NewReader("")))
}

func TestNewSpacesRequiresCredentials(t *testing.T) {
	_, err := NewSpaces(Config{Bucket: "b"})
	assert.Error(t, err)

	spaces, err := NewSpaces(Config{Key: "k", Secret: "s", Bucket: "b", Endpoint: "https://fra1.digitaloceanspaces.com", Region: "fra1"})
	require.NoError(t, err)
	assert.Equal(t, "b", spaces.bucket)
}
