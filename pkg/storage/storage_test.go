package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_WriteFileCreatesDirectoriesAndOverwrites(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)
	ctx := context.Background()

	full, err := s.WriteFile(ctx, "custom_options/quote/abc/_/a.png", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "custom_options", "quote", "abc", "_", "a.png"), full)

	_, err = s.WriteFile(ctx, "custom_options/quote/abc/_/a.png", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	_, err := s.WriteFile(context.Background(), "../outside.txt", []byte("x"))
	assert.Error(t, err)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestR2Storage_WriteFile(t *testing.T) {
	client := &fakePutter{}
	s := newR2Storage(client, "media", "https://cdn.example.com/", time.Second)

	url, err := s.WriteFile(context.Background(), "/custom_options/quote/abc/_/a.txt", []byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/custom_options/quote/abc/_/a.txt", url)
	assert.Equal(t, "media", aws.ToString(client.input.Bucket))
	assert.Equal(t, "custom_options/quote/abc/_/a.txt", aws.ToString(client.input.Key))
	assert.Equal(t, "hello", string(client.body))
}

func TestR2Storage_WriteFileError(t *testing.T) {
	s := newR2Storage(&fakePutter{err: errors.New("denied")}, "media", "https://cdn.example.com", time.Second)
	_, err := s.WriteFile(context.Background(), "a.txt", []byte("x"))
	assert.ErrorContains(t, err, "denied")
}
