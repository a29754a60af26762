package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
)

// ImageResolver turns image references into URLs, uploading pending blobs.
type ImageResolver struct {
	uploader model.ImageUploader
	logger   *logger.Logger
}

// NewImageResolver creates an ImageResolver backed by uploader.
func NewImageResolver(uploader model.ImageUploader, logger *logger.Logger) *ImageResolver {
	return &ImageResolver{
		uploader: uploader,
		logger:   logger,
	}
}

// Resolution is the outcome of resolving a batch of references.
type Resolution struct {
	// URLs holds one URL per input reference, in input order.
	URLs []string
	// Uploaded lists the images created by this batch.
	Uploaded []model.UploadedImage
}

type resolved struct {
	url    string
	upload *model.UploadedImage
	err    error
}

// Resolve returns the URL of ref. A resolved reference is returned as is
// without touching the media host.
func (r *ImageResolver) Resolve(ctx context.Context, ref model.ImageRef) (string, error) {
	res := r.resolve(ctx, ref)
	if res.err != nil {
		return "", res.err
	}
	return res.url, nil
}

// ResolveAll uploads every pending reference concurrently. On failure the
// images already uploaded by this call are removed again.
func (r *ImageResolver) ResolveAll(ctx context.Context, refs []model.ImageRef) (Resolution, error) {
	results := make([]resolved, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		if !ref.IsPending() {
			results[i] = r.resolve(gctx, ref)
			continue
		}
		g.Go(func() error {
			results[i] = r.resolve(gctx, ref)
			return results[i].err
		})
	}
	err := g.Wait()

	out := Resolution{URLs: make([]string, len(refs))}
	for i, res := range results {
		out.URLs[i] = res.url
		if res.upload != nil {
			out.Uploaded = append(out.Uploaded, *res.upload)
		}
	}

	if err != nil {
		r.Discard(context.WithoutCancel(ctx), out.Uploaded)
		return Resolution{}, err
	}
	return out, nil
}

// Discard removes uploaded images best-effort. Failures are only logged.
func (r *ImageResolver) Discard(ctx context.Context, images []model.UploadedImage) {
	for _, img := range images {
		if err := r.uploader.Delete(ctx, img.ID); err != nil {
			r.logger.Error("Image resolver: failed to delete orphaned image",
				"image_id", img.ID,
				"error", err)
		}
	}
}

func (r *ImageResolver) resolve(ctx context.Context, ref model.ImageRef) resolved {
	return model.FoldImage(ref,
		func(url string) resolved {
			return resolved{url: url}
		},
		func(blob model.Blob) resolved {
			uploaded, err := r.uploader.Upload(ctx, blob)
			if err != nil {
				return resolved{err: fmt.Errorf("failed to upload image %q: %w", blob.FileName, err)}
			}
			r.logger.Debug("Image resolver: image uploaded",
				"image_id", uploaded.ID,
				"url", uploaded.URL)
			return resolved{url: uploaded.URL, upload: &uploaded}
		},
	)
}
