package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateAcceptsDayAndTimestamp(t *testing.T) {
	var body struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
		Skip  *Date `json:"skip"`
	}
	err := json.Unmarshal([]byte(`{"start":"2026-07-01","end":"2026-07-08T10:30:00Z"}`), &body)
	require.NoError(t, err)

	assert.True(t, body.Start.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, timeOf(body.End))
	assert.Equal(t, 8, timeOf(body.End).Day())
	assert.Nil(t, timeOf(body.Skip))
}

func TestDateRejectsOtherLayouts(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/07/2026"`), &d))
	assert.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())
}
