package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"
)

// payload is an encoded request body and its content type.
type payload struct {
	contentType string
	reader      io.Reader
}

func jsonPayload(v any) (*payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return &payload{contentType: "application/json", reader: bytes.NewReader(data)}, nil
}

func formPayload(values url.Values) *payload {
	return &payload{
		contentType: "application/x-www-form-urlencoded",
		reader:      strings.NewReader(values.Encode()),
	}
}

// filePart is a file attached to a multipart body.
type filePart struct {
	field    string
	filename string
	content  io.Reader
}

// multipartPayload writes file first, then fields in order.
func multipartPayload(file filePart, fields [][2]string) (*payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile(file.field, file.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(fw, file.content); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &payload{contentType: w.FormDataContentType(), reader: &buf}, nil
}
