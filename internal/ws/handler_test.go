package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/darts-scoreboard/internal/engine"
	"github.com/DoyleJ11/darts-scoreboard/internal/lobby"
	"github.com/DoyleJ11/darts-scoreboard/pkg/types"
)

func dial(t *testing.T) (*websocket.Conn, context.Context) {
	t.Helper()
	ctrl, err := engine.NewController(engine.ModeStandard, engine.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	lb := lobby.NewLobby(ctx, ctrl)

	srv := httptest.NewServer(Handler(lb, Options{}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, payload string) {
	t.Helper()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(payload)))
}

func TestHandler_JoinAndPlay(t *testing.T) {
	conn, ctx := dial(t)

	first := read(t, ctx, conn)
	assert.Equal(t, types.MsgStateSnapshot, first.Type)
	require.NotNil(t, first.State)
	assert.Empty(t, first.State.Players)
	assert.Nil(t, first.State.LastHit)

	send(t, ctx, conn, `{"newPlayer":"A"}`)
	added := read(t, ctx, conn)
	require.Len(t, added.State.Players, 1)
	assert.Equal(t, "A", added.State.Players[0].Name)

	send(t, ctx, conn, `{"startGame":true}`)
	started := read(t, ctx, conn)
	assert.True(t, started.State.Running)

	send(t, ctx, conn, `{"hit":"20x3"}`)
	hit := read(t, ctx, conn)
	assert.Equal(t, 3, hit.Version)
	assert.Equal(t, 441, hit.State.Players[0].Score["points"])
	assert.Equal(t, "20x3", *hit.State.LastHit)
}

func TestHandler_MalformedMessageKeepsConnection(t *testing.T) {
	conn, ctx := dial(t)
	read(t, ctx, conn)

	send(t, ctx, conn, `not json`)
	bad := read(t, ctx, conn)
	assert.Equal(t, types.MsgError, bad.Type)
	assert.Equal(t, "bad json", bad.Error)

	send(t, ctx, conn, `{"dance":1}`)
	unknown := read(t, ctx, conn)
	assert.Equal(t, "unknown message", unknown.Error)

	send(t, ctx, conn, `{"newPlayer":"A"}`)
	ok := read(t, ctx, conn)
	assert.Equal(t, types.MsgStateSnapshot, ok.Type)
}

func TestHandler_RejectedCommandReturnsError(t *testing.T) {
	conn, ctx := dial(t)
	read(t, ctx, conn)

	send(t, ctx, conn, `{"nextPlayer":null}`)
	msg := read(t, ctx, conn)
	assert.Equal(t, types.MsgError, msg.Type)
	assert.Equal(t, engine.ErrGameNotRunning.Error(), msg.Error)
}

func TestToEngineCommands_KeyOrder(t *testing.T) {
	var cm types.ClientMessage
	require.NoError(t, json.Unmarshal([]byte(
		`{"hit":"1o","resetScore":1,"removePlayer":"id1","newPlayer":"A","missHit":true,"nextPlayer":0,"startGame":{},"gameMode":"Cricket"}`,
	), &cm))

	cmds := toEngineCommands(cm)
	got := make([]engine.CommandType, len(cmds))
	for i, c := range cmds {
		got[i] = c.Type
	}
	assert.Equal(t, []engine.CommandType{
		engine.CmdChangeMode, engine.CmdStartGame, engine.CmdNextPlayer, engine.CmdAddPlayer,
		engine.CmdRemovePlayer, engine.CmdMiss, engine.CmdResetGame, engine.CmdRecordHit,
	}, got)
	assert.Equal(t, engine.ModeCricket, cmds[0].Mode)
	assert.Equal(t, "A", cmds[3].Name)
	assert.Equal(t, "id1", cmds[4].PlayerID)
	assert.Equal(t, "1o", cmds[7].Hit)
}
