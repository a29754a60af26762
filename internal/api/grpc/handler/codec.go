package handler

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/portfolio-server/internal/api/apierrors"
	"github.com/dtroode/portfolio-server/internal/model"
)

// fields wraps a request struct with typed accessors.
type fields map[string]*structpb.Value

func fieldsOf(s *structpb.Struct) fields {
	return fields(s.GetFields())
}

func (f fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f fields) string(key string) (string, error) {
	v, ok := f[key]
	if !ok {
		return "", nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NullValue:
		return "", nil
	default:
		return "", apierrors.NewErrInvalidArgument(fmt.Sprintf("field %s must be a string", key))
	}
}

func (f fields) optionalString(key string) (*string, error) {
	if !f.has(key) {
		return nil, nil
	}
	s, err := f.string(key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (f fields) int(key string) (int, error) {
	v, ok := f[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, apierrors.NewErrInvalidArgument(fmt.Sprintf("field %s must be an integer", key))
	}
	return int(n.NumberValue), nil
}

func (f fields) list(key string) ([]*structpb.Value, error) {
	v, ok := f[key]
	if !ok {
		return nil, nil
	}
	l, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, apierrors.NewErrInvalidArgument(fmt.Sprintf("field %s must be a list", key))
	}
	return l.ListValue.GetValues(), nil
}

func (f fields) strings(key string) ([]string, error) {
	values, err := f.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, apierrors.NewErrInvalidArgument(fmt.Sprintf("field %s must hold strings", key))
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

func (f fields) ints(key string) ([]int, error) {
	values, err := f.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
			return nil, apierrors.NewErrInvalidArgument(fmt.Sprintf("field %s must hold integers", key))
		}
		out = append(out, int(n.NumberValue))
	}
	return out, nil
}

func (f fields) image(key string) (model.ImageRef, error) {
	v, ok := f[key]
	if !ok {
		return model.ResolvedImage(""), nil
	}
	return decodeImage(key, v)
}

func (f fields) images(key string) ([]model.ImageRef, error) {
	values, err := f.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]model.ImageRef, 0, len(values))
	for i, v := range values {
		ref, err := decodeImage(fmt.Sprintf("%s[%d]", key, i), v)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

// decodeImage reads either a URL string or an upload object
// {"upload": <base64>, "fileName": ..., "contentType": ...}.
func decodeImage(key string, v *structpb.Value) (model.ImageRef, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return model.ResolvedImage(k.StringValue), nil
	case *structpb.Value_NullValue:
		return model.ResolvedImage(""), nil
	case *structpb.Value_StructValue:
		upload := fieldsOf(k.StructValue)
		encoded, err := upload.string("upload")
		if err != nil {
			return model.ImageRef{}, err
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(data) == 0 {
			return model.ImageRef{}, apierrors.NewErrInvalidArgument(fmt.Sprintf("field %s must carry base64 image data", key))
		}
		fileName, err := upload.string("fileName")
		if err != nil {
			return model.ImageRef{}, err
		}
		contentType, err := upload.string("contentType")
		if err != nil {
			return model.ImageRef{}, err
		}
		return model.PendingImage(model.Blob{FileName: fileName, ContentType: contentType, Data: data}), nil
	default:
		return model.ImageRef{}, apierrors.NewErrInvalidArgument(fmt.Sprintf("field %s must be a URL or an upload", key))
	}
}

func decodeSkillInput(s *structpb.Struct) (model.SkillInput, error) {
	f := fieldsOf(s)
	name, err := f.string("name")
	if err != nil {
		return model.SkillInput{}, err
	}
	level, err := f.int("level")
	if err != nil {
		return model.SkillInput{}, err
	}
	description, err := f.string("description")
	if err != nil {
		return model.SkillInput{}, err
	}
	image, err := f.image("image")
	if err != nil {
		return model.SkillInput{}, err
	}
	return model.SkillInput{Name: name, Image: image, Level: level, Description: description}, nil
}

func decodeProjectInput(s *structpb.Struct) (model.ProjectInput, error) {
	f := fieldsOf(s)
	var (
		in  model.ProjectInput
		err error
	)
	for key, dst := range map[string]*string{
		"name":        &in.Name,
		"description": &in.Description,
		"link":        &in.Link,
		"github":      &in.Github,
		"type":        &in.Type,
	} {
		if *dst, err = f.string(key); err != nil {
			return model.ProjectInput{}, err
		}
	}
	if in.CoverImage, err = f.image("coverImage"); err != nil {
		return model.ProjectInput{}, err
	}
	if in.Images, err = f.images("images"); err != nil {
		return model.ProjectInput{}, err
	}
	if in.Keywords, err = f.strings("keywords"); err != nil {
		return model.ProjectInput{}, err
	}
	return in, nil
}

func decodeUserPatch(s *structpb.Struct) (model.UserPatch, error) {
	f := fieldsOf(s)
	var (
		patch model.UserPatch
		err   error
	)
	for key, dst := range map[string]**string{
		"name":    &patch.Name,
		"email":   &patch.Email,
		"hero":    &patch.Hero,
		"aboutMe": &patch.AboutMe,
		"address": &patch.Address,
	} {
		if *dst, err = f.optionalString(key); err != nil {
			return model.UserPatch{}, err
		}
	}
	if f.has("image") {
		ref, err := f.image("image")
		if err != nil {
			return model.UserPatch{}, err
		}
		patch.Image = &ref
	}
	return patch, nil
}

func mustStruct(m map[string]any) *structpb.Struct {
	s, err := structpb.NewStruct(m)
	if err != nil {
		panic(fmt.Sprintf("handler: unencodable response: %v", err))
	}
	return s
}

func anyStrings(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func skillMap(s model.Skill) map[string]any {
	return map[string]any{
		"name":        s.Name,
		"image":       s.Image,
		"level":       s.Level,
		"description": s.Description,
	}
}

func projectMap(p model.Project) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"coverImage":  p.CoverImage,
		"images":      anyStrings(p.ImageURLs()),
		"link":        p.Link,
		"github":      p.Github,
		"type":        p.Type,
		"keywords":    anyStrings(p.Keywords),
	}
}

func userMap(u model.User) map[string]any {
	return map[string]any{
		"name":    u.Name,
		"email":   u.Email,
		"hero":    u.Hero,
		"aboutMe": u.AboutMe,
		"image":   u.Image,
		"address": u.Address,
	}
}

func alertMap(a model.Alert) map[string]any {
	return map[string]any{
		"entity":    a.Entity,
		"operation": a.Operation,
		"key":       a.Key,
		"message":   a.Message,
		"createdAt": a.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func listStruct[T any](key string, items []T, encode func(T) map[string]any) *structpb.Struct {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, encode(item))
	}
	return mustStruct(map[string]any{key: out})
}
