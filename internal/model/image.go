package model

import "context"

// ImageUploader stores image blobs with the media host.
type ImageUploader interface {
	Upload(ctx context.Context, blob Blob) (UploadedImage, error)
	Delete(ctx context.Context, id string) error
}

// UploadedImage is the media host's answer to an upload.
type UploadedImage struct {
	URL string
	ID  string
}

// Blob is a raw image payload that has not been uploaded yet.
type Blob struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ImageRef is either a resolved URL or a pending blob. The zero value is
// a resolved empty URL.
type ImageRef struct {
	url  string
	blob *Blob
}

// ResolvedImage references an already uploaded image.
func ResolvedImage(url string) ImageRef {
	return ImageRef{url: url}
}

// PendingImage references a blob that still has to be uploaded.
func PendingImage(blob Blob) ImageRef {
	return ImageRef{blob: &blob}
}

// ResolvedImages wraps every URL as a resolved reference.
func ResolvedImages(urls []string) []ImageRef {
	refs := make([]ImageRef, 0, len(urls))
	for _, u := range urls {
		refs = append(refs, ResolvedImage(u))
	}
	return refs
}

// IsPending reports whether the reference still needs an upload.
func (r ImageRef) IsPending() bool {
	return r.blob != nil
}

// Placeholder is the value shown locally until the reference is resolved.
func (r ImageRef) Placeholder() string {
	return FoldImage(r,
		func(url string) string { return url },
		func(Blob) string { return "" },
	)
}

// FoldImage calls exactly one of the branches depending on the reference kind.
func FoldImage[T any](r ImageRef, resolved func(url string) T, pending func(blob Blob) T) T {
	if r.blob != nil {
		return pending(*r.blob)
	}
	return resolved(r.url)
}

// Placeholders maps references to their local placeholder values.
func Placeholders(refs []ImageRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Placeholder())
	}
	return out
}
