// Package output opens the destination a file sink writes its document to:
// standard output, a local file, an S3 object or a GCS object. A
// compression suffix on the destination (.gz, .zst, .lz4, .sz, .s2)
// compresses the stream.
package output

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/biosemantics/nanoconv/pkg/compression"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"go.uber.org/zap"
)

// Stdout is the destination name for standard output
const Stdout = "-"

// Scheme tells the kind of destination
type Scheme string

const (
	SchemeStdout Scheme = "stdout"
	SchemeFile   Scheme = "file"
	SchemeS3     Scheme = "s3"
	SchemeGCS    Scheme = "gs"
)

// Location is a parsed destination
type Location struct {
	Scheme Scheme
	// Path is the local path for file destinations
	Path string
	// Bucket and Key address an object store destination
	Bucket string
	Key    string
}

// String returns the destination in the form it was given
func (l Location) String() string {
	switch l.Scheme {
	case SchemeStdout:
		return Stdout
	case SchemeS3, SchemeGCS:
		return string(l.Scheme) + "://" + l.Bucket + "/" + l.Key
	default:
		return l.Path
	}
}

// Name returns the object key or file path, used to infer formats
func (l Location) Name() string {
	if l.Scheme == SchemeS3 || l.Scheme == SchemeGCS {
		return l.Key
	}
	return l.Path
}

// ParseLocation parses "-", a local path, s3://bucket/key or gs://bucket/key
func ParseLocation(dest string) (Location, error) {
	dest = strings.TrimSpace(dest)
	switch {
	case dest == "":
		return Location{}, errors.New(errors.ErrorTypeConfig, "output destination is empty")
	case dest == Stdout:
		return Location{Scheme: SchemeStdout}, nil
	case strings.HasPrefix(dest, "s3://"), strings.HasPrefix(dest, "gs://"):
		u, err := url.Parse(dest)
		if err != nil {
			return Location{}, errors.Wrap(err, errors.ErrorTypeConfig, "invalid output destination").
				WithDetail("destination", dest)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" || strings.HasSuffix(key, "/") {
			return Location{}, errors.Newf(errors.ErrorTypeConfig, "destination %q needs a bucket and an object key", dest)
		}
		return Location{Scheme: Scheme(u.Scheme), Bucket: u.Host, Key: key}, nil
	default:
		return Location{Scheme: SchemeFile, Path: dest}, nil
	}
}

// Options configures Open
type Options struct {
	// Level applies when the destination has a compression suffix
	Level compression.Level
	// ContentType is set on uploaded objects
	ContentType string
	// Region of the S3 bucket
	Region string
	// CredentialsFile is a GCS service account key file
	CredentialsFile string
	// PartSize and Concurrency tune S3 multipart uploads
	PartSize    int64
	Concurrency int
	Logger      *zap.Logger
}

// Open returns a writer for dest. Closing it flushes any compressor,
// then finishes the file or upload. Closing a standard output writer
// leaves os.Stdout open.
func Open(ctx context.Context, dest string, opts Options) (io.WriteCloser, error) {
	loc, err := ParseLocation(dest)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var raw io.WriteCloser
	switch loc.Scheme {
	case SchemeStdout:
		raw = nopCloser{os.Stdout}
	case SchemeFile:
		raw, err = createFile(loc.Path)
	case SchemeS3:
		raw, err = openS3(ctx, loc, opts)
	case SchemeGCS:
		raw, err = openGCS(ctx, loc, opts)
	}
	if err != nil {
		return nil, err
	}

	alg, _ := compression.FromExtension(loc.Name())
	if alg == compression.None {
		return raw, nil
	}

	cw, err := compression.NewWriter(raw, alg, opts.Level)
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	opts.Logger.Debug("compressing output",
		zap.String("destination", loc.String()),
		zap.String("algorithm", string(alg)))
	return &chain{WriteCloser: cw, next: raw}, nil
}

// Uncompressed returns dest without its compression suffix
func Uncompressed(dest string) string {
	_, base := compression.FromExtension(dest)
	return base
}

func createFile(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory").
				WithDetail("path", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file").
			WithDetail("path", path)
	}
	return f, nil
}

// chain closes the outer writer first, then the one it writes to
type chain struct {
	io.WriteCloser
	next io.Closer
}

func (c *chain) Close() error {
	err := c.WriteCloser.Close()
	if nextErr := c.next.Close(); err == nil {
		err = nextErr
	}
	return err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
