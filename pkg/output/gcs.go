package output

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func openGCS(ctx context.Context, loc Location, opts Options) (io.WriteCloser, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create GCS client")
	}

	writer := client.Bucket(loc.Bucket).Object(loc.Key).NewWriter(ctx)
	if opts.ContentType != "" {
		writer.ContentType = opts.ContentType
	}
	return &gcsWriter{Writer: writer, client: client, loc: loc, logger: opts.Logger}, nil
}

// gcsWriter finishes the object on Close and releases the client
type gcsWriter struct {
	*storage.Writer
	client *storage.Client
	loc    Location
	logger *zap.Logger
}

func (w *gcsWriter) Close() error {
	err := w.Writer.Close()
	if clientErr := w.client.Close(); err == nil && clientErr != nil {
		w.logger.Warn("failed to close GCS client", zap.Error(clientErr))
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to write to GCS").
			WithDetail("destination", w.loc.String())
	}
	w.logger.Info("uploaded output", zap.String("destination", w.loc.String()))
	return nil
}
