package media

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentals/internal/config"
)

// MockS3API is a mock implementation of s3API.
type MockS3API struct {
	mock.Mock
}

func (m *MockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3API) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func TestS3Store_Put(t *testing.T) {
	client := new(MockS3API)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, ok := in.Body.(*bytes.Reader)
		return ok && body.Len() == 4 && *in.Bucket == "places" &&
			*in.Key == "k1-flat.jpg" &&
			*in.ContentType == "image/jpeg" &&
			in.ACL == types.ObjectCannedACLPublicReadWrite &&
			*in.ContentLength == 4
	})).Return(&s3.PutObjectOutput{}, nil)

	store := newS3Store(client, config.StorageConfig{Bucket: "places", Region: "eu-north-1"})
	url, err := store.Put(context.Background(), "k1-flat.jpg", []byte("jpeg"))

	require.NoError(t, err)
	assert.Equal(t, "https://places.s3.eu-north-1.amazonaws.com/k1-flat.jpg", url)
	client.AssertExpectations(t)
}

func TestS3Store_PutError(t *testing.T) {
	client := new(MockS3API)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	store := newS3Store(client, config.StorageConfig{Bucket: "places"})
	url, err := store.Put(context.Background(), "k", []byte("x"))

	assert.EqualError(t, err, "access denied")
	assert.Empty(t, url)
}

func TestS3Store_Delete(t *testing.T) {
	client := new(MockS3API)
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Bucket == "places" && *in.Key == "k1"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	store := newS3Store(client, config.StorageConfig{Bucket: "places"})
	require.NoError(t, store.Delete(context.Background(), "k1"))
	client.AssertExpectations(t)
}

func TestS3Store_URL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{
			name: "aws virtual hosted",
			cfg:  config.StorageConfig{Bucket: "places", Region: "us-east-1"},
			want: "https://places.s3.us-east-1.amazonaws.com/id-my%20flat.jpg",
		},
		{
			name: "custom endpoint path style",
			cfg:  config.StorageConfig{Bucket: "places", Endpoint: "http://minio:9000/"},
			want: "http://minio:9000/places/id-my%20flat.jpg",
		},
		{
			name: "public base url wins",
			cfg:  config.StorageConfig{Bucket: "places", Endpoint: "http://minio:9000", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/id-my%20flat.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newS3Store(nil, tt.cfg).URL("id-my flat.jpg"))
		})
	}
}
