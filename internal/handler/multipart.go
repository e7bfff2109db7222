package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"go-social-api/pkg/apierror"
)

const multipartMemory = 8 << 20

// uploadForm is a parsed multipart body. Close releases open files and any
// parts spilled to disk.
type uploadForm struct {
	form  *multipart.Form
	files []multipart.File
}

func parseUploadForm(r *http.Request) (*uploadForm, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isPayloadTooLarge(err) {
			return nil, err
		}
		return nil, apierror.Validation("invalid multipart body", "")
	}
	return &uploadForm{form: r.MultipartForm}, nil
}

func (f *uploadForm) value(key string) string {
	values := f.form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// open returns readers for every file under the given field names, in order.
func (f *uploadForm) open(fields ...string) ([]io.Reader, error) {
	readers := []io.Reader{}
	for _, field := range fields {
		for _, header := range f.form.File[field] {
			file, err := header.Open()
			if err != nil {
				return nil, apierror.Validation("unreadable upload", field)
			}
			f.files = append(f.files, file)
			readers = append(readers, file)
		}
	}
	return readers, nil
}

// first returns the first file under field, or nil when none was sent.
func (f *uploadForm) first(field string) (io.Reader, error) {
	headers := f.form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	file, err := headers[0].Open()
	if err != nil {
		return nil, apierror.Validation("unreadable upload", field)
	}
	f.files = append(f.files, file)
	return file, nil
}

func (f *uploadForm) Close() {
	for _, file := range f.files {
		_ = file.Close()
	}
	_ = f.form.RemoveAll()
}
