package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const contentTypeJSON = "application/json"

// Request is a fully buffered request description. Because Body is a
// byte slice the same Request can be sent more than once.
type Request struct {
	Method      string
	Path        string
	Body        []byte
	ContentType string
}

// NewRequest builds a request without a body.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path, ContentType: contentTypeJSON}
}

// NewJSONRequest marshals in as the request body. A nil in sends no body.
func NewJSONRequest(method, path string, in any) (*Request, error) {
	r := NewRequest(method, path)
	if in == nil {
		return r, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}
	r.Body = b
	return r, nil
}

// Field is one text part of a multipart form.
type Field struct {
	Name  string
	Value string
}

// File is one file part of a multipart form.
type File struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is a multipart/form-data body. Fields are written in order.
type Form struct {
	Fields []Field
	Files  []File
}

// Add appends a text field.
func (f *Form) Add(name, value string) {
	f.Fields = append(f.Fields, Field{Name: name, Value: value})
}

// AddFile appends a file part read from content.
func (f *Form) AddFile(field, filename string, content io.Reader) {
	f.Files = append(f.Files, File{Field: field, Filename: filename, Content: content})
}

// NewMultipartRequest encodes form into a buffered multipart body.
func NewMultipartRequest(method, path string, form *Form) (*Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range form.Fields {
		if err := w.WriteField(fld.Name, fld.Value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", fld.Name, err)
		}
	}
	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("copy file part %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return &Request{Method: method, Path: path, Body: buf.Bytes(), ContentType: w.FormDataContentType()}, nil
}

// Response is a fully read response together with the bearer token that
// was attached to the request ("" if none).
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Token      string
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) Unauthorized() bool {
	return r.StatusCode == http.StatusUnauthorized
}

// Err converts a non-2xx response into an *APIError for req. fallback is
// used when the body carries no message.
func (r *Response) Err(req *Request, fallback string) error {
	msg := remoteMessage(r.Body)
	if msg == "" {
		msg = fallback
	}
	return &APIError{Method: req.Method, Path: req.Path, StatusCode: r.StatusCode, Message: msg}
}

// Decode unmarshals the payload into v, unwrapping the service's
// {"success": ..., "data": ...} envelope when present.
func (r *Response) Decode(v any) error {
	return decodePayload(r.Body, v)
}

var jsonNull = []byte("null")

func decodePayload(body []byte, v any) error {
	body = bytes.TrimSpace(body)
	if v == nil || len(body) == 0 {
		return nil
	}

	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, jsonNull) {
		body = env.Data
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
