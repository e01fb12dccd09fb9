package investigations

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Status is the search state of a single source.
type Status string

const (
	StatusFound     Status = "found"
	StatusNotFound  Status = "not_found"
	StatusSearching Status = "searching"
	StatusError     Status = "error"
)

// Result is the outcome of searching one source. Data is set only when
// Status is StatusFound.
type Result struct {
	Source string
	URL    string
	Status Status
	Data   Data
	Notes  string
}

// Normalize drops Data from any result that is not found.
func (r Result) Normalize() Result {
	if r.Status != StatusFound {
		r.Data = nil
	}
	return r
}

type resultJSON struct {
	Source string          `json:"source"`
	URL    string          `json:"url"`
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Notes  string          `json:"notes,omitempty"`
}

// MarshalJSON encodes Data as a flat object carrying a kind discriminator.
func (r Result) MarshalJSON() ([]byte, error) {
	r = r.Normalize()
	out := resultJSON{
		Source: r.Source,
		URL:    r.URL,
		Status: r.Status,
		Notes:  r.Notes,
	}

	if r.Data != nil {
		data, err := marshalData(r.Data)
		if err != nil {
			return nil, err
		}
		out.Data = data
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the kind-tagged Data produced by MarshalJSON.
func (r *Result) UnmarshalJSON(b []byte) error {
	var in resultJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	*r = Result{
		Source: in.Source,
		URL:    in.URL,
		Status: in.Status,
		Notes:  in.Notes,
	}

	if len(in.Data) == 0 || bytes.Equal(in.Data, []byte("null")) {
		return nil
	}

	data, err := unmarshalData(in.Data)
	if err != nil {
		return err
	}
	r.Data = data
	*r = r.Normalize()
	return nil
}

func marshalData(d Data) ([]byte, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	kind, err := json.Marshal(d.Kind())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"kind":`)
	buf.Write(kind)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func unmarshalData(b []byte) (Data, error) {
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return nil, err
	}

	switch tag.Kind {
	case KindRegistry:
		return decodeAs[RegistryData](b)
	case KindNetwork:
		return decodeAs[NetworkData](b)
	case KindDirectory:
		return decodeAs[DirectoryData](b)
	case KindLicense:
		return decodeAs[LicenseData](b)
	case KindWebSearch:
		return decodeAs[WebSearchData](b)
	}
	return nil, fmt.Errorf("unknown result data kind %q", tag.Kind)
}

func decodeAs[T Data](b []byte) (Data, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func newResult(id SourceID, status Status, data Data, notes string) Result {
	src := catalog[id]
	return Result{
		Source: src.Name,
		URL:    src.URL,
		Status: status,
		Data:   data,
		Notes:  notes,
	}.Normalize()
}
