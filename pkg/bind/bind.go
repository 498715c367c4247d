// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/lojinha/config"
	"github.com/shashiranjanraj/lojinha/pkg/validate"
)

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("malformed request body")

func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// JSON decodes r.Body into dest and runs validation.
// Returns (errs, nil) on validation failures and (nil, err) when the body is
// not valid JSON or is too large.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: larger than %d bytes", ErrMalformed, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
