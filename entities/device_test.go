package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateRoundTrip(t *testing.T) {
	d := Device{Data: DefaultData}
	assert.Equal(t, "off", d.State())

	d.SetState("on")
	assert.Equal(t, "on", d.State())
}

func TestSetStatePreservesOtherPayloadKeys(t *testing.T) {
	d := Device{Data: `{"state":"off","brightness":40}`}
	d.SetState("on")

	assert.Equal(t, "on", d.State())
	assert.Contains(t, d.Data, `"brightness":40`)
}

func TestStateOnGarbagePayload(t *testing.T) {
	d := Device{Data: "not json"}
	assert.Equal(t, "", d.State())
}
