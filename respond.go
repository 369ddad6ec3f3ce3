package hbridge

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	contentTypeJSON   = "application/json; charset=utf-8"
	contentTypeText   = "text/plain; charset=utf-8"
	contentTypeBinary = "application/octet-stream"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// respond converts a handler outcome into the one terminal write of res.
func respond(req *http.Request, res *Response, logs Logger, v any, err error) error {
	if err != nil {
		return respondError(req, res, logs, err)
	}

	return respondValue(req, res, logs, v)
}

func respondValue(req *http.Request, res *Response, logs Logger, v any) error {
	var (
		body  []byte
		ctype string
	)

	switch vt := v.(type) {
	case nil, *Response:
		body = res.buffered()
	case string:
		body, ctype = []byte(vt), contentTypeText
	case []byte:
		body, ctype = vt, contentTypeBinary
	case io.Reader:
		if rc, ok := vt.(io.Closer); ok {
			defer rc.Close()
		}

		setContentType(res, contentTypeBinary)

		return res.send(defaultStatus(req.Method, res.explicitStatus(), false), nil, vt)
	case fmt.Stringer:
		body, ctype = []byte(vt.String()), contentTypeText
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		body, ctype = []byte(fmt.Sprint(vt)), contentTypeText
	default:
		data, err := json.Marshal(vt)
		if err != nil {
			return respondError(req, res, logs, errors.Wrap(err, "failed to encode response value"))
		}

		body, ctype = data, contentTypeJSON
	}

	if ctype != "" {
		setContentType(res, ctype)
	}

	return res.send(defaultStatus(req.Method, res.explicitStatus(), len(body) == 0), body, nil)
}

// respondError discards anything buffered and answers with the error's status. Errors that are not an
// [*Error] are logged as defects and answered with a generic 500.
func respondError(req *http.Request, res *Response, logs Logger, err error) error {
	code, msg := CodeInternalServerError, CodeInternalServerError.Text()
	if herr, ok := asError(err); ok && herr.Code() >= 400 {
		code, msg = herr.Code(), herr.Message()
	} else if logs != nil {
		logs.LogHandlerError(req, err)
	}

	res.Reset()

	if acceptsOnlyText(req) {
		res.SetHeader("Content-Type", contentTypeText)

		return res.send(int(code), []byte(msg), nil)
	}

	data, merr := json.Marshal(errorBody{StatusCode: int(code), Error: code.Text(), Message: msg})
	if merr != nil {
		return errors.Wrap(merr, "failed to encode error response")
	}

	res.SetHeader("Content-Type", contentTypeJSON)

	return res.send(int(code), data, nil)
}

// defaultStatus picks the status when a handler did not set one explicitly.
func defaultStatus(method string, explicit int, empty bool) int {
	switch {
	case explicit > 0:
		return explicit
	case empty:
		return http.StatusNoContent
	case method == http.MethodPost:
		return http.StatusCreated
	default:
		return http.StatusOK
	}
}

func setContentType(res *Response, ctype string) {
	if res.Header().Get("Content-Type") == "" {
		res.SetHeader("Content-Type", ctype)
	}
}

// acceptsOnlyText reports whether every media range in the Accept header is text/plain.
func acceptsOnlyText(req *http.Request) bool {
	accept := req.Header.Get("Accept")
	if accept == "" {
		return false
	}

	for part := range strings.SplitSeq(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || mt != "text/plain" {
			return false
		}
	}

	return true
}
