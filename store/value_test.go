package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEqual(t *testing.T) {
	assert.True(t, Null().Equal(Null()))
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("a").Equal(String("b")))
	assert.False(t, String("1").Equal(Int64(1)))
	assert.True(t, Int64(7).Equal(Int64(7)))
	assert.True(t, Float64(1.5).Equal(Float64(1.5)))
	assert.True(t, Bool(true).Equal(Bool(true)))

	now := time.Now().Round(0)
	assert.True(t, Time(now).Equal(Time(now)))
}

func TestValueJSONRoundTrip(t *testing.T) {
	now := time.Now().UTC().Round(time.Nanosecond)
	values := []Value{
		Null(),
		String("hello"),
		Int64(-42),
		Float64(3.14159),
		Bool(true),
		Bool(false),
		Time(now),
	}

	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var out Value
		require.NoError(t, json.Unmarshal(data, &out))
		assert.True(t, v.Equal(out), "round trip mismatch for %v", v)
	}
}

func TestRowClone(t *testing.T) {
	r := Row{"a": Int64(1), "b": String("x")}
	clone := r.Clone()
	clone["a"] = Int64(2)

	assert.Equal(t, Int64(1), r["a"])
	assert.Equal(t, Int64(2), clone["a"])
	assert.Nil(t, Row(nil).Clone())
}
