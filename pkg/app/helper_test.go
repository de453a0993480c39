package app

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(body io.Reader, contentType string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	return echo.New().NewContext(req, httptest.NewRecorder())
}

func multipartBody(t *testing.T, build func(w *multipart.Writer)) (io.Reader, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	build(w)
	require.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func TestBindMultipartFile(t *testing.T) {
	body, contentType := multipartBody(t, func(w *multipart.Writer) {
		require.NoError(t, w.WriteField("note", "hello"))

		part, err := w.CreateFormFile("image", "cat.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png bytes"))
		require.NoError(t, err)

		part, err = w.CreateFormFile("image", "second.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("ignored"))
		require.NoError(t, err)
	})

	file, err := BindMultipartFile(newContext(body, contentType), "image")
	require.NoError(t, err)

	assert.Equal(t, "cat.png", file.Filename)
	assert.Equal(t, echo.MIMEOctetStream, file.ContentType)
	assert.Equal(t, []byte("png bytes"), file.Data)
}

func TestBindMultipartFileEmptyFilename(t *testing.T) {
	body, contentType := multipartBody(t, func(w *multipart.Writer) {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename=""`)
		h.Set("Content-Type", echo.MIMEOctetStream)

		_, err := w.CreatePart(h)
		require.NoError(t, err)
	})

	file, err := BindMultipartFile(newContext(body, contentType), "image")
	require.NoError(t, err)

	assert.Empty(t, file.Filename)
	assert.Empty(t, file.Data)
}

func TestBindMultipartFileMissing(t *testing.T) {
	tests := []struct {
		name string
		body func(t *testing.T) (io.Reader, string)
	}{
		{
			name: "text field",
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, func(w *multipart.Writer) {
					require.NoError(t, w.WriteField("image", "not a file"))
				})
			},
		},
		{
			name: "no fields",
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, func(*multipart.Writer) {})
			},
		},
		{
			name: "url-encoded",
			body: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(url.Values{"image": {"not a file"}}.Encode()), echo.MIMEApplicationForm
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := tt.body(t)

			_, err := BindMultipartFile(newContext(body, contentType), "image")
			assert.ErrorIs(t, err, http.ErrMissingFile)
		})
	}
}

func TestBindMultipartFileErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"no content type", "", ""},
		{"json body", `{"image":"x"}`, echo.MIMEApplicationJSON},
		{"missing boundary", "--x--", echo.MIMEMultipartForm},
		{"truncated multipart", "--x\r\nContent-Disposition: form-data; name=\"image\"", echo.MIMEMultipartForm + "; boundary=x"},
		{"truncated file", "--x\r\nContent-Disposition: form-data; name=\"image\"; filename=\"a.png\"\r\n\r\nabc", echo.MIMEMultipartForm + "; boundary=x"},
		{"empty multipart", "", echo.MIMEMultipartForm + "; boundary=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BindMultipartFile(newContext(strings.NewReader(tt.body), tt.contentType), "image")
			assert.Error(t, err)
			assert.NotErrorIs(t, err, http.ErrMissingFile)
		})
	}
}

func TestContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	assert.Equal(t, "image/webp", ContentType("image/webp", png))
	assert.Equal(t, "image/png", ContentType("", png))
	assert.Equal(t, "image/png", ContentType(echo.MIMEOctetStream, png))
}

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	mtype, r, err := DetectContentType(bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mtype)

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, png, all)
}

func TestRequestID(t *testing.T) {
	c := newContext(nil, "")
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	ctx := NewEchoContextAdapter(c)
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(newContext(nil, "").Request().Context()))
}
