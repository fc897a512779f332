package handlers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babyname-machine/backend/internal/trends"
	"github.com/babyname-machine/backend/pkg/apperr"
)

func TestNameList_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want NameList
	}{
		{"free text", `{"names": "Bill, Elon"}`, NameList{"Bill", "Elon"}},
		{"trailing comma keeps empty entry", `{"names": "Bill,"}`, NameList{"Bill", ""}},
		{"array", `{"names": ["Ada", "Bill"]}`, NameList{"Ada", "Bill"}},
		{"array entries trimmed", `{"names": [" Ada", "Bill ", " "]}`, NameList{"Ada", "Bill", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TrendRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Names)
		})
	}
}

func TestNameList_RejectsOtherTypes(t *testing.T) {
	var req TrendRequest
	assert.Error(t, json.Unmarshal([]byte(`{"names": 42}`), &req))
}

func TestTrendRequest_QueryDefaults(t *testing.T) {
	req := TrendRequest{Names: NameList{"Bill"}, Metric: "Name_Ratio"}

	q, err := req.Query()
	require.NoError(t, err)
	assert.Equal(t, trends.MetricNameRatio, q.Metric)
	assert.Equal(t, 1880, q.StartYear)
	assert.Equal(t, 1881, q.EndYear)
}

func TestTrendRequest_MetricCheckedFirst(t *testing.T) {
	req := TrendRequest{Names: NameList{"Bill"}, StartYear: 1700, Metric: "Popularity"}

	_, err := req.Query()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "Popularity")
}
