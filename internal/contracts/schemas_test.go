package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemasRegistered(t *testing.T) {
	assert.Contains(t, compiledSchemas, ValuationRequestV1)
	assert.Contains(t, compiledSchemas, ValuationTaskV1)
}

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "ValuationRequest/1.0.0", generateKeyFromPath("schemas/requests/valuation-request/v1.json"))
	assert.Equal(t, "ValuationTaskEvent/2.0.0", generateKeyFromPath("schemas/events/valuation-task/v2.json"))
	assert.Equal(t, "", generateKeyFromPath("schemas/orphan.json"))
}

func TestValidateValuationRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"minimal", `{"location":"Москва","deal_type":"sale","rooms":2,"area":54.5}`, false},
		{"full", `{"location":"Казань","deal_type":"rent","building_type":"2","object_type":"2","level":3,"levels":9,"rooms":0,"area":28,"kitchen_area":null}`, false},
		{"missing location", `{"deal_type":"sale","rooms":2,"area":54.5}`, true},
		{"empty location", `{"location":"","deal_type":"sale","rooms":2,"area":54.5}`, true},
		{"unknown deal type", `{"location":"Москва","deal_type":"lease","rooms":2,"area":54.5}`, true},
		{"negative rooms", `{"location":"Москва","deal_type":"sale","rooms":-1,"area":54.5}`, true},
		{"zero area", `{"location":"Москва","deal_type":"sale","rooms":1,"area":0}`, true},
		{"fractional rooms", `{"location":"Москва","deal_type":"sale","rooms":1.5,"area":40}`, true},
		{"unknown field", `{"location":"Москва","deal_type":"sale","rooms":1,"area":40,"price":1}`, true},
		{"not json", `{"location":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ValuationRequestV1, []byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateValuationTask(t *testing.T) {
	assert.NoError(t, Validate(ValuationTaskV1, []byte(`{"valuation_id":"6f1c2a52-7a57-4a59-9b1e-0f0c5f0b2a11"}`)))
	assert.Error(t, Validate(ValuationTaskV1, []byte(`{"valuation_id":"42"}`)))
	assert.Error(t, Validate(ValuationTaskV1, []byte(`{}`)))
}

func TestValidateUnknownSchema(t *testing.T) {
	assert.Error(t, Validate("Nope/1.0.0", []byte(`{}`)))
}
