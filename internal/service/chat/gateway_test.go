package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"linkup_dm_server/internal/dto/respond"
	"linkup_dm_server/pkg/util/jwt"
)

const testSecret = "gateway-test-secret-32-characters!!!"

// newGatewayServer 组装带实时路由的测试服务器
func newGatewayServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	jwt.Init(testSecret, 15, 24)

	gin.SetMode(gin.TestMode)
	hub := NewHub()
	co := NewCoordinator(&fakeMessageRepo{}, hub, nil)
	gw := NewGateway(hub, co)

	engine := gin.New()
	engine.GET("/api/ws", gw.HandleConnection)
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	t.Cleanup(hub.Close)
	return server, hub
}

func wsURL(server *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

// dialUser 以指定用户身份建立连接并等待其加入房间
func dialUser(t *testing.T, server *httptest.Server, hub *Hub, userId string) *websocket.Conn {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userId)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// 握手响应先于房间注册写出，等注册完成再继续
	require.Eventually(t, func() bool {
		return hub.SessionCount(userId) == 1
	}, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(payload, &ev))
	return ev
}

func TestHandshakeRejectsMissingToken(t *testing.T) {
	server, hub := newGatewayServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil)
	require.Nil(t, conn)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// 未认证的连接从未进入任何房间，也收不到任何投递
	require.Equal(t, 0, hub.PublishToUser("u1", []byte("hello")))
}

func TestHandshakeRejectsGarbageToken(t *testing.T) {
	server, hub := newGatewayServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "not-a-token"), nil)
	require.Nil(t, conn)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, hub.SessionCount("u1"))
}

func TestHandshakeRejectsExpiredToken(t *testing.T) {
	server, hub := newGatewayServer(t)

	// 用已过期的有效签名凭证握手
	jwt.Init(testSecret, -5, 24)
	expired, err := jwt.GenerateAccessToken("u1")
	require.NoError(t, err)
	jwt.Init(testSecret, 15, 24)

	conn, resp, dialErr := websocket.DefaultDialer.Dial(wsURL(server, expired), nil)
	require.Nil(t, conn)
	require.ErrorIs(t, dialErr, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, hub.SessionCount("u1"))
}

func TestHandshakeRejectsRefreshToken(t *testing.T) {
	server, hub := newGatewayServer(t)

	// Refresh Token 签名有效但 Subject 不是 access_token
	refresh, _, err := jwt.GenerateRefreshToken("u1")
	require.NoError(t, err)

	conn, resp, dialErr := websocket.DefaultDialer.Dial(wsURL(server, refresh), nil)
	require.Nil(t, conn)
	require.ErrorIs(t, dialErr, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, hub.SessionCount("u1"))
}

func TestHandshakeJoinsCredentialRoom(t *testing.T) {
	server, hub := newGatewayServer(t)

	conn := dialUser(t, server, hub, "u1")

	// 无需 join 事件，凭证身份的房间即可收到投递
	require.Equal(t, 1, hub.PublishToUser("u1", []byte(`{"event":"private_message","data":{}}`)))
	ev := readEvent(t, conn)
	require.Equal(t, EventPrivateMessage, ev.Event)
}

func TestPrivateMessageOverWebSocket(t *testing.T) {
	server, hub := newGatewayServer(t)

	sender := dialUser(t, server, hub, "u1")
	receiver := dialUser(t, server, hub, "u2")

	payload := []byte(`{"event":"private_message","data":{"receiver_id":"u2","content":"hello","client_tag":"tag-1"}}`)
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, payload))

	// 发送者先收到房间广播，再收到带关联标识的确认回执
	broadcast := readEvent(t, sender)
	require.Equal(t, EventPrivateMessage, broadcast.Event)
	var msg respond.MessageRespond
	require.NoError(t, json.Unmarshal(broadcast.Data, &msg))
	require.Equal(t, "u1", msg.SenderId)
	require.Equal(t, "hello", msg.Content)

	ack := readEvent(t, sender)
	require.Equal(t, EventSendAck, ack.Event)
	var ackData SendAckData
	require.NoError(t, json.Unmarshal(ack.Data, &ackData))
	require.Equal(t, "tag-1", ackData.ClientTag)
	require.Equal(t, msg.Id, ackData.Message.Id)

	// 接收者收到同一条广播
	got := readEvent(t, receiver)
	require.Equal(t, EventPrivateMessage, got.Event)
}

func TestPrivateMessageFailureAck(t *testing.T) {
	server, hub := newGatewayServer(t)

	sender := dialUser(t, server, hub, "u1")

	// 给自己发送会被协调器拒绝，失败回执携带关联标识供回滚
	payload := []byte(`{"event":"private_message","data":{"receiver_id":"u1","content":"hello","client_tag":"tag-9"}}`)
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, payload))

	ev := readEvent(t, sender)
	require.Equal(t, EventSendFailed, ev.Event)
	var failed SendFailedData
	require.NoError(t, json.Unmarshal(ev.Data, &failed))
	require.Equal(t, "tag-9", failed.ClientTag)
	require.NotEmpty(t, failed.Message)
}
