package main

import (
	"testing"

	"github.com/galdor/go-influx/pkg/influx"
	"github.com/stretchr/testify/assert"
)

func TestParseFieldValue(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		s     string
		field influx.Field
	}{
		{"t", influx.BooleanField(true)},
		{"true", influx.BooleanField(true)},
		{"f", influx.BooleanField(false)},
		{"false", influx.BooleanField(false)},
		{"42i", influx.IntegerField(42)},
		{"-3i", influx.IntegerField(-3)},
		{"89.3", influx.FloatField(89.3)},
		{"10", influx.FloatField(10)},
		{"hi", influx.StringField("hi")},
		{"xi", influx.StringField("xi")},
		{"", influx.StringField("")},
	}

	for _, test := range tests {
		assert.Equal(test.field, parseFieldValue(test.s), test.s)
	}
}

func TestBuildPoint(t *testing.T) {
	assert := assert.New(t)

	point, err := buildPoint("cpu_usage", "cpu=cpu-total",
		"idle=89.3,busy=10.7", "1000")
	if assert.NoError(err) {
		assert.Equal("cpu_usage,cpu=cpu-total busy=10.7,idle=89.3 1000",
			point.Serialize())
	}

	point, err = buildPoint("m", "", "a=1i", "")
	if assert.NoError(err) {
		assert.Equal("m a=1i", point.Serialize())
	}

	tests := []struct {
		measurement string
		tags        string
		fields      string
		timestamp   string
	}{
		{"", "", "a=1", ""},
		{"m", "", "", ""},
		{"m", "x", "a=1", ""},
		{"m", "", "=1", ""},
		{"m", "", "a=1", "yesterday"},
	}

	for _, test := range tests {
		_, err := buildPoint(test.measurement, test.tags, test.fields,
			test.timestamp)
		assert.Error(err, "%#v", test)
	}
}
