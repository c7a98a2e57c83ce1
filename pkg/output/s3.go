package output

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"go.uber.org/zap"
)

// uploader is the part of manager.Uploader used here
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

func openS3(ctx context.Context, loc Location, opts Options) (io.WriteCloser, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to load AWS configuration")
	}

	client := s3.NewFromConfig(cfg)
	up := manager.NewUploader(client, func(u *manager.Uploader) {
		if opts.PartSize > 0 {
			u.PartSize = opts.PartSize
		}
		if opts.Concurrency > 0 {
			u.Concurrency = opts.Concurrency
		}
	})
	return newS3Writer(ctx, up, loc, opts), nil
}

// s3Writer streams writes into a multipart upload through a pipe
type s3Writer struct {
	pw     *io.PipeWriter
	done   chan struct{}
	err    error
	loc    Location
	logger *zap.Logger
}

func newS3Writer(ctx context.Context, up uploader, loc Location, opts Options) *s3Writer {
	pr, pw := io.Pipe()
	w := &s3Writer{pw: pw, done: make(chan struct{}), loc: loc, logger: opts.Logger}

	input := &s3.PutObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
		Body:   pr,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	go func() {
		defer close(w.done)
		result, err := up.Upload(ctx, input)
		if err != nil {
			w.err = errors.Wrap(err, errors.ErrorTypeConnection, "failed to upload to S3").
				WithDetail("destination", loc.String())
			_ = pr.CloseWithError(w.err)
			return
		}
		w.logger.Info("uploaded output",
			zap.String("destination", loc.String()),
			zap.String("location", result.Location))
	}()
	return w
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

// Close ends the body and waits for the upload to finish
func (w *s3Writer) Close() error {
	_ = w.pw.Close()
	<-w.done
	return w.err
}
