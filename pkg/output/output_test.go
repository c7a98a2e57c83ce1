package output

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/biosemantics/nanoconv/pkg/compression"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		dest    string
		want    Location
		wantErr bool
	}{
		{dest: "-", want: Location{Scheme: SchemeStdout}},
		{dest: "out/hg19.trig", want: Location{Scheme: SchemeFile, Path: "out/hg19.trig"}},
		{dest: "s3://nanopubs/fantom5/cage.nq.gz", want: Location{Scheme: SchemeS3, Bucket: "nanopubs", Key: "fantom5/cage.nq.gz"}},
		{dest: "gs://nanopubs/assembly.ttl", want: Location{Scheme: SchemeGCS, Bucket: "nanopubs", Key: "assembly.ttl"}},
		{dest: "", wantErr: true},
		{dest: "s3://nanopubs", wantErr: true},
		{dest: "gs://nanopubs/dir/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			got, err := ParseLocation(tt.dest)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.dest, got.String())
		})
	}
}

func TestOpen_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.trig")

	w, err := Open(context.Background(), path, Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	_, err = io.WriteString(w, "<a> <b> <c> .\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<a> <b> <c> .\n", string(data))
}

func TestOpen_CompressedFile(t *testing.T) {
	payload := bytes.Repeat([]byte("<http://example.org/s> <http://example.org/p> \"o\" .\n"), 50)

	for _, name := range []string{"out.nq.gz", "out.nq.zst", "out.nq.lz4", "out.nq.sz", "out.nq.s2"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			w, err := Open(context.Background(), path, Options{Level: compression.Default})
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			alg, base := compression.FromExtension(path)
			assert.Equal(t, "out.nq", filepath.Base(base))
			r, err := compression.NewReader(f, alg)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestUncompressed(t *testing.T) {
	assert.Equal(t, "hg19.nq", Uncompressed("hg19.nq.gz"))
	assert.Equal(t, "hg19.trig", Uncompressed("hg19.trig"))
	assert.Equal(t, "-", Uncompressed("-"))
}

type fakeUploader struct {
	mu    sync.Mutex
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	body, err := io.ReadAll(input.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = input
	f.body = body
	if err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{Location: "https://nanopubs.s3.amazonaws.com/" + aws.ToString(input.Key)}, nil
}

func TestS3Writer(t *testing.T) {
	up := &fakeUploader{}
	loc := Location{Scheme: SchemeS3, Bucket: "nanopubs", Key: "hg19.trig"}
	w := newS3Writer(context.Background(), up, loc, Options{ContentType: "application/trig", Logger: zaptest.NewLogger(t)})

	_, err := io.WriteString(w, "@prefix np: <http://www.nanopub.org/nschema#> .\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "nanopubs", aws.ToString(up.input.Bucket))
	assert.Equal(t, "hg19.trig", aws.ToString(up.input.Key))
	assert.Equal(t, "application/trig", aws.ToString(up.input.ContentType))
	assert.Equal(t, "@prefix np: <http://www.nanopub.org/nschema#> .\n", string(up.body))
}

func TestS3Writer_UploadFailure(t *testing.T) {
	up := &fakeUploader{err: io.ErrClosedPipe}
	loc := Location{Scheme: SchemeS3, Bucket: "nanopubs", Key: "hg19.trig"}
	w := newS3Writer(context.Background(), up, loc, Options{Logger: zaptest.NewLogger(t)})

	_, _ = io.WriteString(w, "data")
	err := w.Close()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
}
