package response

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/validation"
)

const maxBodyBytes = 1 << 20

// DecodeFields reads a submitted form as flat string fields. JSON bodies and
// urlencoded forms are both accepted. JSON numbers keep their literal text so
// amounts never pass through float64.
func DecodeFields(w http.ResponseWriter, r *http.Request) (validation.Fields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "application/json" {
		if err := r.ParseForm(); err != nil {
			return nil, domain.ErrInvalidJSON(err)
		}
		out := make(validation.Fields, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
		return out, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, domain.ErrInvalidJSON(err)
	}
	if dec.More() {
		return nil, domain.ErrInvalidJSON(errors.New("multiple JSON values"))
	}

	out := make(validation.Fields, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			out[k] = t
		case json.Number:
			out[k] = t.String()
		case bool:
			out[k] = strconv.FormatBool(t)
		}
		// nested values and nulls are treated as absent
	}
	return out, nil
}
