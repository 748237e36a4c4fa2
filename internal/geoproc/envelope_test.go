package geoproc

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeDecode(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantSuccess bool
		wantData    string
		wantErrMsg  string
	}{
		{
			name:        "success with data",
			body:        `{"success": true, "data": {"mean_slope": 12.4}}`,
			wantSuccess: true,
			wantData:    `{"mean_slope": 12.4}`,
		},
		{
			name:       "failure with error detail",
			body:       `{"success": false, "error": {"message": "no such layer", "code": "LAYER_NOT_FOUND"}}`,
			wantErrMsg: "no such layer",
		},
		{
			name: "failure with neither data nor error",
			body: `{"success": false}`,
		},
		{
			name: "empty object",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			if err := json.Unmarshal([]byte(tt.body), &env); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if env.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", env.Success, tt.wantSuccess)
			}
			if string(env.Data) != tt.wantData {
				t.Errorf("Data = %q, want %q", env.Data, tt.wantData)
			}
			if tt.wantErrMsg == "" {
				if env.Error != nil {
					t.Errorf("Error = %+v, want nil", env.Error)
				}
			} else if env.Error == nil || env.Error.Message != tt.wantErrMsg {
				t.Errorf("Error = %+v, want message %q", env.Error, tt.wantErrMsg)
			}
		})
	}
}

func TestEnvelopeEncodeOmitsEmptyFields(t *testing.T) {
	env := Envelope{Success: true, Data: json.RawMessage(`{"n":1}`)}
	out, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"success":true,"data":{"n":1}}`
	if string(out) != want {
		t.Errorf("marshal = %s, want %s", out, want)
	}
}

func TestParamsOrEmpty(t *testing.T) {
	var nilParams Params
	got := nilParams.orEmpty()
	if got == nil {
		t.Fatal("orEmpty() on nil returned nil")
	}
	out, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "{}" {
		t.Errorf("nil params marshal to %s, want {}", out)
	}

	p := Params{"dem_path": "/data/dem.tif"}
	if got := p.orEmpty(); len(got) != 1 || got["dem_path"] != "/data/dem.tif" {
		t.Errorf("orEmpty() altered non-nil params: %v", got)
	}
}
