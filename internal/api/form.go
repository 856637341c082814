package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Form is a multipart/form-data request body. The gateway encodes it with a
// multipart writer, so the content type (and its boundary) is always owned by
// the encoder, never set by the caller.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name     string
	filename string
	data     []byte
}

func NewForm() *Form {
	return &Form{}
}

// Set appends a plain text field.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a binary file part.
func (f *Form) AddFile(name, filename string, data []byte) *Form {
	f.files = append(f.files, formFile{name: name, filename: filename, data: data})
	return f
}

// encode serializes the form and returns the content type carrying the
// multipart boundary.
func (f *Form) encode() (contentType string, body *bytes.Buffer, err error) {
	body = &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return "", nil, fmt.Errorf("write form field %q: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		part, err := w.CreateFormFile(file.name, file.filename)
		if err != nil {
			return "", nil, fmt.Errorf("create form file %q: %w", file.name, err)
		}
		if _, err := part.Write(file.data); err != nil {
			return "", nil, fmt.Errorf("write form file %q: %w", file.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return w.FormDataContentType(), body, nil
}
