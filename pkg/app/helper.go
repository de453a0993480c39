package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

var ErrNotAForm = errors.New("request body is not a form")

// FilePart is a file read from a form body.
type FilePart struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BindMultipartFile reads the request body as a form and returns the first
// file part named key. A part is a file when its Content-Disposition carries
// a filename parameter, even an empty one. Text values never count, and
// url-encoded bodies never hold a file. A malformed body or any other
// content type is an error.
func BindMultipartFile(c echo.Context, key string) (*FilePart, error) {
	req := c.Request()

	mediaType, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if err != nil {
		return nil, fmt.Errorf("parsing content type: %w", err)
	}

	switch mediaType {
	case echo.MIMEMultipartForm:
		return readMultipartFile(req, key)
	case echo.MIMEApplicationForm:
		if err := req.ParseForm(); err != nil {
			return nil, fmt.Errorf("parsing form: %w", err)
		}

		return nil, http.ErrMissingFile
	}

	return nil, fmt.Errorf("%w: %s", ErrNotAForm, mediaType)
}

// readMultipartFile reads the whole body so a malformed part after the
// file still fails the request.
func readMultipartFile(req *http.Request, key string) (*FilePart, error) {
	reader, err := req.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("parsing multipart form: %w", err)
	}

	var file *FilePart

	for {
		part, err := reader.NextPart()
		// only a bare io.EOF marks the closing boundary; a wrapped one is a
		// truncated body
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading multipart form: %w", err)
		}

		if file != nil || part.FormName() != key || !isFilePart(part) {
			if _, err := io.Copy(io.Discard, part); err != nil {
				return nil, fmt.Errorf("reading multipart form: %w", err)
			}

			continue
		}

		data, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("read form file: %w", err)
		}

		file = &FilePart{
			Filename:    part.FileName(),
			ContentType: part.Header.Get(echo.HeaderContentType),
			Data:        data,
		}
	}

	if file == nil {
		return nil, http.ErrMissingFile
	}

	return file, nil
}

func isFilePart(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}

	_, ok := params["filename"]

	return ok
}

// DetectContentType returns the MIME type of input and a new reader
// containing the whole data from input.
func DetectContentType(input io.Reader) (string, io.Reader, error) {
	// header will store the bytes mimetype uses for detection.
	header := bytes.NewBuffer(nil)

	// After DetectReader, the data read from input is copied into header.
	mtype, err := mimetype.DetectReader(io.TeeReader(input, header))
	if err != nil {
		return "", nil, err
	}

	// Concatenate back the header to the rest of the file.
	// recycled now contains the complete, original data.
	recycled := io.MultiReader(header, input)

	return mtype.String(), recycled, err
}

// ContentType prefers the declared type and sniffs data when the
// declaration is missing or generic.
func ContentType(declared string, data []byte) string {
	if declared != "" && declared != echo.MIMEOctetStream {
		return declared
	}

	return mimetype.Detect(data).String()
}
