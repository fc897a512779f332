package api

import (
	"net"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTrends(t *testing.T) *websocket.Conn {
	t.Helper()

	app, _, _ := defaultApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/trends", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var frame map[string]interface{}
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestWebSocket_StreamsSeriesThenComplete(t *testing.T) {
	conn := dialTrends(t)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":       "trend",
		"names":      "Bill, Elon",
		"start_year": 1990,
		"end_year":   2000,
		"metric":     "Count",
	}))

	labels := []string{}
	for i := 0; i < 2; i++ {
		frame := readFrame(t, conn)
		require.Equal(t, "series", frame["type"])
		series := frame["series"].(map[string]interface{})
		labels = append(labels, series["label"].(string))
	}
	assert.Equal(t, []string{"Bill (M)", "Bill (F)"}, labels)

	complete := readFrame(t, conn)
	assert.Equal(t, "complete", complete["type"])
	assert.EqualValues(t, 2, complete["series"])
	assert.Equal(t, "Count", complete["y_label"])
	assert.EqualValues(t, 1990, complete["start_year"])
	assert.EqualValues(t, 2000, complete["end_year"])
}

func TestWebSocket_UnknownMetric(t *testing.T) {
	conn := dialTrends(t)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":       "trend",
		"names":      "Bill",
		"start_year": 1990,
		"end_year":   2000,
		"metric":     "Population",
	}))

	frame := readFrame(t, conn)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "INVALID_ARGUMENT", frame["code"])
	assert.Contains(t, frame["error"], "Population")
}

func TestWebSocket_MalformedMessageKeepsConnection(t *testing.T) {
	conn := dialTrends(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	frame := readFrame(t, conn)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "INVALID_ARGUMENT", frame["code"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":       "trend",
		"names":      []string{"Ada"},
		"start_year": 1990,
		"end_year":   2000,
		"metric":     "Name_Ratio",
	}))

	frame = readFrame(t, conn)
	require.Equal(t, "series", frame["type"])
	assert.Equal(t, "Ada (F)", frame["series"].(map[string]interface{})["label"])
	assert.Equal(t, "complete", readFrame(t, conn)["type"])
}
