package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
)

// MaxBodyBytes bounds every mutation body.
const MaxBodyBytes = 1 << 20

var ErrBadBody = errors.New("unreadable request body")

// DecodeForm reads a urlencoded, multipart or JSON body into form-style
// fields. JSON objects are flattened the way browsers encode nested form
// names, so {"products":[{"name":"a"}]} becomes products[0][name]=a.
// Numbers keep their literal text.
func DecodeForm(w http.ResponseWriter, r *http.Request) (map[string][]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		out := map[string][]string{}
		for k, v := range body {
			flatten(out, k, v)
		}
		return out, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
	}
	return r.PostForm, nil
}

func flatten(out map[string][]string, key string, v any) {
	switch t := v.(type) {
	case nil:
		out[key] = []string{""}
	case string:
		out[key] = []string{t}
	case json.Number:
		out[key] = []string{t.String()}
	case bool:
		out[key] = []string{strconv.FormatBool(t)}
	case []any:
		for i, e := range t {
			flatten(out, key+"["+strconv.Itoa(i)+"]", e)
		}
	case map[string]any:
		for k, e := range t {
			flatten(out, key+"["+k+"]", e)
		}
	default:
		out[key] = []string{fmt.Sprint(t)}
	}
}
