package media

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"rentals/internal/errors"
	"rentals/internal/metrics"
)

// Object is an uploaded image.
type Object struct {
	Key string
	URL string
}

// Sideloader pushes listing images to object storage.
type Sideloader struct {
	store   ObjectStore
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewSideloader creates a sideloader. A zero timeout leaves uploads bounded only by ctx.
func NewSideloader(store ObjectStore, timeout time.Duration, log logrus.FieldLogger) *Sideloader {
	return &Sideloader{store: store, timeout: timeout, log: log}
}

// Upload stores every JPEG payload concurrently and returns the objects in payload order.
// Non-JPEG payloads are dropped. If any upload fails the whole call fails with an
// *errors.UploadError and the objects already stored by this call are deleted.
func (s *Sideloader) Upload(ctx context.Context, payloads []Payload) ([]Object, error) {
	accepted := make([]Payload, 0, len(payloads))
	for _, p := range payloads {
		if !IsJPEG(p.ContentType) {
			s.log.WithFields(logrus.Fields{
				"filename":     p.Filename,
				"content_type": p.ContentType,
			}).Debug("dropping non-jpeg image")
			continue
		}
		accepted = append(accepted, p)
	}
	if len(accepted) == 0 {
		return nil, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	objects := make([]Object, len(accepted))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range accepted {
		g.Go(func() error {
			key := StorageKey(p.Filename)
			url, err := s.store.Put(gctx, key, p.Body)
			if err != nil {
				metrics.ObserveUpload("failure")
				return &errors.UploadError{Key: key, Err: err}
			}
			metrics.ObserveUpload("success")
			objects[i] = Object{Key: key, URL: url}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.WithError(err).Warn("image upload failed, discarding sibling uploads")
		s.Discard(context.WithoutCancel(ctx), Keys(objects))
		return nil, err
	}
	return objects, nil
}

// Discard deletes objects best-effort; failures are logged, not returned.
func (s *Sideloader) Discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.WithError(err).WithField("key", key).Error("failed to delete orphaned image")
		}
	}
}

// Keys returns the non-empty storage keys of objects.
func Keys(objects []Object) []string {
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		if o.Key != "" {
			keys = append(keys, o.Key)
		}
	}
	return keys
}
